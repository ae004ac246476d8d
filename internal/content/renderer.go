package content

import (
	"fmt"
	"math/rand"
	"strings"

	"telegram-affiliate-bot/internal/domain/model"
)

// Renderer turns an Offer into channel post text. It is pure with respect to
// entities: the injected randomness picks cosmetic variation (urgency phrase,
// call to action) and never changes what is being promoted.
type Renderer struct {
	rng         *rand.Rand
	botUsername string
	channelTag  string
}

func NewRenderer(rng *rand.Rand, botUsername, channelTag string) *Renderer {
	return &Renderer{rng: rng, botUsername: botUsername, channelTag: channelTag}
}

var urgencyPhrases = []string{
	"🔥 TRENDING OPPORTUNITY",
	"⚡ LIMITED TIME OFFER",
	"💎 PREMIUM DEAL ALERT",
	"🚀 HIGH CONVERTER",
	"⭐ MEMBER EXCLUSIVE",
	"💰 PROFIT OPPORTUNITY",
}

var ctaPhrases = []string{
	"👆 Claim your spot now!",
	"🔗 Start earning today!",
	"⚡ Get instant access!",
	"💰 Join thousands earning!",
	"🎯 Don't miss this!",
	"🚀 Secure your link!",
}

// categoryEmoji is a total mapping over the closed category enum.
// model.Category.Normalize folds anything unknown into CategoryOther first.
var categoryEmoji = map[model.Category]string{
	model.CategoryAITools:      "🤖",
	model.CategoryEcommerce:    "🛒",
	model.CategoryMarketing:    "📈",
	model.CategoryEducation:    "📚",
	model.CategoryCrypto:       "₿",
	model.CategoryTrading:      "📊",
	model.CategoryHealth:       "💪",
	model.CategoryDesign:       "🎨",
	model.CategoryProductivity: "⚡",
	model.CategoryOther:        "💎",
}

// Render produces the full broadcast post for one offer.
func (r *Renderer) Render(offer *model.Offer) string {
	urgency := urgencyPhrases[r.rng.Intn(len(urgencyPhrases))]
	cta := ctaPhrases[r.rng.Intn(len(ctaPhrases))]
	emoji := categoryEmoji[offer.Category.Normalize()]

	var sb strings.Builder
	sb.WriteString(urgency)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%s *%s*\n\n", emoji, offer.Title)
	fmt.Fprintf(&sb, "📋 %s\n\n", offer.Description)
	fmt.Fprintf(&sb, "💵 *Commission:* $%.0f per sale\n", offer.Commission)
	fmt.Fprintf(&sb, "⭐ *Platform:* %s\n", offer.Platform)
	fmt.Fprintf(&sb, "🎯 *Category:* %s\n\n", offer.Category)
	sb.WriteString(cta)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "🔗 *Get Started:* %s\n", offer.AffiliateLink)
	if r.channelTag != "" {
		fmt.Fprintf(&sb, "\n💎 Join %s for daily opportunities!\n", r.channelTag)
	}
	if r.botUsername != "" {
		fmt.Fprintf(&sb, "🤖 Get your referral link: %s\n", r.botUsername)
	}
	sb.WriteString("\n#MakeMoneyOnline #AffiliateMarketing #PassiveIncome")
	return sb.String()
}

// RenderCompact is the short listing used in the "hot offers" inline flow.
func (r *Renderer) RenderCompact(offers []*model.Offer) string {
	var sb strings.Builder
	sb.WriteString("🔥 *TODAY'S HOTTEST OPPORTUNITIES*\n\n")
	for i, o := range offers {
		fmt.Fprintf(&sb, "*%d. %s*\n", i+1, o.Title)
		fmt.Fprintf(&sb, "💵 Commission: $%.0f\n", o.Commission)
		fmt.Fprintf(&sb, "🔗 Link: %s\n\n", o.AffiliateLink)
	}
	if r.channelTag != "" {
		fmt.Fprintf(&sb, "💎 More opportunities posted every few hours in %s!", r.channelTag)
	}
	return sb.String()
}
