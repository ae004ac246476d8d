//go:build !integration

package content

import (
	"math/rand"
	"strings"
	"testing"

	"telegram-affiliate-bot/internal/domain/model"
)

func testOffer(t *testing.T, category model.Category) *model.Offer {
	t.Helper()
	o, err := model.NewOffer("Jasper AI", "AI writing assistant", category, 50, 0.1, "https://example.com/jasper", "Direct Affiliate")
	if err != nil {
		t.Fatalf("NewOffer: %v", err)
	}
	return o
}

func TestRenderer_Render(t *testing.T) {
	t.Run("should be deterministic for a fixed seed", func(t *testing.T) {
		offer := testOffer(t, model.CategoryAITools)
		a := NewRenderer(rand.New(rand.NewSource(7)), "@LuxuryTrendBot", "@limitlesstrend_daily").Render(offer)
		b := NewRenderer(rand.New(rand.NewSource(7)), "@LuxuryTrendBot", "@limitlesstrend_daily").Render(offer)
		if a != b {
			t.Error("expected identical output for identical seeds")
		}
	})

	t.Run("should include offer facts regardless of cosmetic variation", func(t *testing.T) {
		offer := testOffer(t, model.CategoryAITools)
		for seed := int64(0); seed < 10; seed++ {
			out := NewRenderer(rand.New(rand.NewSource(seed)), "@bot", "@chan").Render(offer)
			for _, want := range []string{"Jasper AI", "https://example.com/jasper", "$50", "Direct Affiliate", "@chan", "@bot"} {
				if !strings.Contains(out, want) {
					t.Errorf("seed %d: output missing %q", seed, want)
				}
			}
		}
	})

	t.Run("should not mutate the offer", func(t *testing.T) {
		offer := testOffer(t, model.CategoryDesign)
		before := *offer
		NewRenderer(rand.New(rand.NewSource(1)), "@bot", "@chan").Render(offer)
		if *offer != before {
			t.Error("Render mutated the offer")
		}
	})

	t.Run("should render every category including the default", func(t *testing.T) {
		categories := []model.Category{
			model.CategoryAITools, model.CategoryEcommerce, model.CategoryMarketing,
			model.CategoryEducation, model.CategoryCrypto, model.CategoryTrading,
			model.CategoryHealth, model.CategoryDesign, model.CategoryProductivity,
			model.CategoryOther, model.Category("Gardening"),
		}
		r := NewRenderer(rand.New(rand.NewSource(3)), "@bot", "@chan")
		for _, c := range categories {
			o := testOffer(t, c)
			if out := r.Render(o); out == "" {
				t.Errorf("category %q rendered empty", c)
			}
		}
	})
}

func TestRenderer_RenderCompact(t *testing.T) {
	r := NewRenderer(rand.New(rand.NewSource(1)), "@bot", "@chan")
	offers := []*model.Offer{testOffer(t, model.CategoryAITools), testOffer(t, model.CategoryHealth)}
	out := r.RenderCompact(offers)
	if !strings.Contains(out, "1. Jasper AI") || !strings.Contains(out, "2. Jasper AI") {
		t.Errorf("expected numbered listing, got:\n%s", out)
	}
}

func TestBuiltinOffers(t *testing.T) {
	offers, err := BuiltinOffers()
	if err != nil {
		t.Fatalf("BuiltinOffers failed: %v", err)
	}
	if len(offers) < 3 {
		t.Fatalf("expected a seed catalog of at least 3 offers, got %d", len(offers))
	}
	for _, o := range offers {
		if !o.Category.IsValid() {
			t.Errorf("offer %q has invalid category %q", o.Title, o.Category)
		}
	}
}
