package fixtures

import "github.com/mclantax/content-pipeline/internal/models"

// SampleRecord is a review record seeded into an empty store
type SampleRecord struct {
	Trend    string
	Script   string
	VideoURL string
	Captions models.Captions
}

// SampleRecords returns the demo records shown on a fresh dashboard
func SampleRecords() []SampleRecord {
	return []SampleRecord{
		{
			Trend:    "Tax Season Memes Go Viral on TikTok",
			Script:   "Hey grownups! *giggles* So I heard you're all stressed about taxes again? I'm literally three months old and even I know you should call McLan Tax! 👶💰",
			VideoURL: "https://example.com/videos/sample1.mp4",
			Captions: models.Captions{
				"tiktok":    "When this baby knows more about taxes than you do 😂👶 #BabyTax #TaxSeason #McLanTax #FYP",
				"instagram": "POV: A baby gives better tax advice than your accountant 💀 @mclantax #reels #viral #tax",
				"youtube":   "Baby Gives SAVAGE Tax Advice (You Won't Believe What Happens Next!) #shorts #tax #baby",
			},
		},
		{
			Trend:    "Inflation Concerns Dominate Social Media",
			Script:   "Listen up adults! *baby babbles* I may only eat milk and baby food, but even I know inflation is crazy! My diapers cost more than your tax deductions! Call McLan Tax! 👶💸",
			VideoURL: "https://example.com/videos/sample2.mp4",
			Captions: models.Captions{
				"tiktok":    "This baby understands inflation better than economists 📈👶 #InflationBaby #TaxTips #McLanTax",
				"instagram": "When even babies are worried about the economy 😅 Let @mclantax help! #inflation #baby #tax",
				"youtube":   "Baby Explains Inflation Crisis (Adults Are Shocked!) #shorts #inflation #baby #finance",
			},
		},
	}
}
