package api

import "strings"

// Nutrition holds the eleven macro and micronutrient totals the service
// reports. A field the payload omitted decodes as zero; the API does not
// distinguish "absent" from a true zero.
type Nutrition struct {
	Calories      float64
	Protein       float64
	TotalFat      float64
	Carbohydrates float64
	Fiber         float64
	Sugar         float64
	Sodium        float64
	Calcium       float64
	Iron          float64
	SaturatedFat  float64
	Cholesterol   float64
}

// USDAMatch identifies the reference food the server matched an ingredient to.
type USDAMatch struct {
	FDCID       int    `json:"fdc_id"`
	Description string `json:"description"`
	DataType    string `json:"data_type"`
}

// IngredientResult is the outcome of a single-ingredient analysis. On failure
// only Ingredient, ProcessingTimeMS, and Error are populated.
type IngredientResult struct {
	Success            bool
	Ingredient         string
	ProcessingTimeMS   float64
	FromCache          bool // server-asserted cache metadata, opaque to the client
	Nutrition          *Nutrition
	USDAMatch          *USDAMatch
	VerificationURL    string
	ConfidenceScore    float64
	VerificationMethod string
	Error              string
}

// Recipe echoes the analyzed recipe parameters back to the caller.
type Recipe struct {
	Ingredients []string
	Servings    int
}

// RecipeIngredient is the per-ingredient breakdown inside a recipe analysis.
type RecipeIngredient struct {
	Ingredient string
	Nutrition  Nutrition
	USDAMatch  *USDAMatch
	Success    bool
}

// RecipeNutrition carries recipe totals, per-serving figures, and the
// per-ingredient breakdown.
type RecipeNutrition struct {
	Total       Nutrition
	PerServing  Nutrition
	Ingredients []RecipeIngredient
}

// RecipeResult is the outcome of a recipe analysis.
type RecipeResult struct {
	Success          bool
	Recipe           Recipe
	Nutrition        *RecipeNutrition
	ProcessingTimeMS float64
	USDAMatches      int
	Error            string
}

// BatchResult aggregates per-ingredient results of a batch analysis.
type BatchResult struct {
	Success           bool
	BatchSize         int
	SuccessfulMatches int
	Results           []IngredientResult
	ProcessingTimeMS  float64
}

// Usage reports the account's consumption for the current billing month.
// MonthlyLimit is nil for unlimited plans.
type Usage struct {
	CurrentMonth   int
	MonthlyLimit   *int
	Remaining      int
	PercentageUsed float64
	ResetDate      string
	DaysUntilReset int
}

// PlanFeatures is derived client-side from the subscription tier name, not
// returned verbatim by the server.
type PlanFeatures struct {
	BatchProcessing      bool
	MaxBatchSize         int
	PrioritySupport      bool
	AnalyticsDashboard   bool
	WebhookNotifications bool
	CustomIntegrations   bool
}

// Account is the server-reported subscription state, fetched on demand and
// never cached by the client.
type Account struct {
	Email              string
	APITier            string
	SubscriptionStatus string
	Usage              Usage
	Features           PlanFeatures
}

// DeriveFeatures computes plan capabilities from the tier name. Matching is
// case-insensitive; an unknown tier gets no features. batchLimit comes from
// the server's usage payload and defaults to 1 upstream when absent.
func DeriveFeatures(tier string, batchLimit int) PlanFeatures {
	t := strings.ToLower(tier)
	in := func(tiers ...string) bool {
		for _, candidate := range tiers {
			if t == candidate {
				return true
			}
		}
		return false
	}
	return PlanFeatures{
		BatchProcessing:      in("trial", "starter", "professional", "enterprise"),
		MaxBatchSize:         batchLimit,
		PrioritySupport:      in("professional", "enterprise"),
		AnalyticsDashboard:   in("starter", "professional", "enterprise"),
		WebhookNotifications: in("professional", "enterprise"),
		CustomIntegrations:   t == "enterprise",
	}
}

// MaskKey renders an API key for display: a fixed 12-character prefix and an
// ellipsis. Keys are never logged or displayed in full.
func MaskKey(key string) string {
	const prefixLen = 12
	if len(key) > prefixLen {
		key = key[:prefixLen]
	}
	return key + "..."
}
