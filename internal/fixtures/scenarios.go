package fixtures

import (
	"strings"
)

// Scenario is a canned topic with matching script and platform copy, used
// when the pipeline runs without an LLM.
type Scenario struct {
	Trend     string
	Keywords  []string
	Script    string
	TikTok    string
	Instagram string
	YouTube   string
}

var scenarios = []Scenario{
	{
		Trend:     "Tax Season Memes Go Viral on TikTok",
		Keywords:  []string{"tax season", "meme"},
		Script:    "Hey grownups! So I heard you're all stressed about taxes again? I'm literally three months old and even I know you should call McLan Tax! They make taxes as easy as taking candy from a baby!",
		TikTok:    "When this baby knows more about taxes than you do 😂👶 #BabyTax #TaxSeason #McLanTax #FYP",
		Instagram: "POV: A baby gives better tax advice than your accountant 💀 This little one knows what's up! 👶✨ @mclantax #reels #viral #tax",
		YouTube:   "Baby Gives SAVAGE Tax Advice (You Won't Believe What Happens Next!) #shorts #tax #baby #viral",
	},
	{
		Trend:     "Cryptocurrency Tax Confusion Trending",
		Keywords:  []string{"crypto", "bitcoin"},
		Script:    "Wait, wait, wait! You adults are confused about crypto taxes? I don't even know what Bitcoin is but I know McLan Tax can help! They handle all that digital money stuff!",
		TikTok:    "Baby solves crypto tax problems adults can't figure out 🤯👶 #CryptoBaby #TaxHelp #McLanTax",
		Instagram: "This baby has better financial advice than crypto influencers 💎👶 @mclantax can help! #crypto #tax #baby",
		YouTube:   "Baby Explains Crypto Taxes (Finance Bros HATE This!) #shorts #crypto #tax #baby",
	},
	{
		Trend:     "Work From Home Tax Deductions Viral",
		Keywords:  []string{"work from home", "wfh", "remote"},
		Script:    "So I work from home too! My home office is my crib! Can I write off my baby blanket as a business expense? McLan Tax knows all the work from home deductions!",
		TikTok:    "Baby CEO claims nursery as home office tax deduction 😂👶 #WFH #TaxDeductions #BabyCEO #McLanTax",
		Instagram: "When babies understand WFH tax deductions better than adults 💼👶 @mclantax #workfromhome #tax",
		YouTube:   "Baby Claims Nursery as Business Expense (IRS Approved?) #shorts #wfh #tax #baby",
	},
}

// Match finds the scenario whose keywords appear in the topic title
func Match(title string) (Scenario, bool) {
	t := strings.ToLower(title)
	for _, s := range scenarios {
		for _, kw := range s.Keywords {
			if strings.Contains(t, kw) {
				return s, true
			}
		}
	}
	return Scenario{}, false
}
