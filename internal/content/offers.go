package content

import "telegram-affiliate-bot/internal/domain/model"

type offerTemplate struct {
	title       string
	description string
	category    model.Category
	commission  float64
	gravity     float64
	link        string
	platform    string
}

// builtinOffers is the seed catalog. Commission is the representative payout
// per sale in dollars; gravity is the expected conversion rate used as a
// secondary ranking signal.
var builtinOffers = []offerTemplate{
	{"Jasper AI Writing Assistant", "AI-powered content creation tool used by 100,000+ businesses worldwide",
		model.CategoryAITools, 50, 0.10, "https://jasper.ai/?fpr=luxurytrend24", "Direct Affiliate"},
	{"Copy.ai Content Generator", "AI copywriting for ads, emails, social media - 10M+ users",
		model.CategoryAITools, 40, 0.08, "https://copy.ai/?via=luxurytrend", "Direct Affiliate"},
	{"Notion AI Workspace", "All-in-one workspace with AI writing, planning, and collaboration",
		model.CategoryProductivity, 30, 0.17, "https://affiliate.notion.so/luxurytrend", "Notion Partners"},
	{"Shopify E-commerce Platform", "Complete online store solution - powers 1.7M+ businesses globally",
		model.CategoryEcommerce, 150, 0.06, "https://shopify.pxf.io/c/3661625/1101159/13624", "Shopify Affiliates"},
	{"ClickFunnels Sales Funnel Builder", "Build high-converting sales funnels without coding - 100K+ users",
		model.CategoryMarketing, 70, 0.05, "https://clickfunnels.com/?cf_affiliate_id=1234567", "ClickFunnels"},
	{"Leadpages Landing Page Builder", "Create high-converting landing pages and websites in minutes",
		model.CategoryMarketing, 60, 0.07, "https://leadpages.pxf.io/c/3661625/466534/5673", "Leadpages Affiliates"},
	{"Skillshare Creative Learning", "Online courses in design, business, tech - 12M+ students",
		model.CategoryEducation, 11, 0.15, "https://skillshare.eqcm.net/c/3661625/298081/4650", "Skillshare Affiliates"},
	{"Udemy Online Courses", "190,000+ courses in business, tech, design - 57M+ students",
		model.CategoryEducation, 20, 0.11, "https://udemy.com/affiliate/?ref=luxurytrend", "Udemy Affiliates"},
	{"Coinbase Cryptocurrency Exchange", "World's most trusted crypto platform - 100M+ verified users",
		model.CategoryCrypto, 30, 0.12, "https://coinbase.com/join/luxury_trend", "Coinbase Affiliates"},
	{"TradingView Market Analysis", "Advanced charting and analysis platform - 50M+ traders",
		model.CategoryTrading, 22, 0.09, "https://tradingview.go2cloud.org/SH1Zx", "TradingView Partners"},
	{"MyFitnessPal Premium", "World's #1 nutrition tracking app - 200M+ downloads",
		model.CategoryHealth, 12, 0.22, "https://myfitnesspal.com/premium?ref=luxurytrend", "MyFitnessPal"},
	{"Canva Pro Design Platform", "Professional design tool - 100M+ monthly users worldwide",
		model.CategoryDesign, 36, 0.18, "https://partner.canva.com/c/3661625/647168/10068", "Canva Affiliates"},
	{"Grammarly Premium Writing Assistant", "AI writing assistant - 30M+ daily users, improves writing quality",
		model.CategoryProductivity, 30, 0.21, "https://grammarly.go2cloud.org/SH1Zy", "Grammarly Affiliates"},
}

// BuiltinOffers materializes the seed catalog as fresh domain entities.
func BuiltinOffers() ([]*model.Offer, error) {
	out := make([]*model.Offer, 0, len(builtinOffers))
	for _, t := range builtinOffers {
		o, err := model.NewOffer(t.title, t.description, t.category, t.commission, t.gravity, t.link, t.platform)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
