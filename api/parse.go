package api

import (
	"encoding/json"
	"fmt"
)

// Wire shapes. The ingredient endpoint reports nutrient keys with a _total
// suffix; the recipe endpoint reports bare keys inside total/per_serving and
// per-ingredient blocks. Both decode into the same Nutrition model, with
// absent numerics defaulting to zero and absent nested blocks to nil.

type totalNutritionJSON struct {
	Calories      float64 `json:"calories_total"`
	Protein       float64 `json:"protein_total"`
	TotalFat      float64 `json:"total_fat_total"`
	Carbohydrates float64 `json:"carbohydrates_total"`
	Fiber         float64 `json:"fiber_total"`
	Sugar         float64 `json:"sugar_total"`
	Sodium        float64 `json:"sodium_total"`
	Calcium       float64 `json:"calcium_total"`
	Iron          float64 `json:"iron_total"`
	SaturatedFat  float64 `json:"saturated_fat_total"`
	Cholesterol   float64 `json:"cholesterol_total"`
}

func (n *totalNutritionJSON) model() Nutrition {
	return Nutrition{
		Calories:      n.Calories,
		Protein:       n.Protein,
		TotalFat:      n.TotalFat,
		Carbohydrates: n.Carbohydrates,
		Fiber:         n.Fiber,
		Sugar:         n.Sugar,
		Sodium:        n.Sodium,
		Calcium:       n.Calcium,
		Iron:          n.Iron,
		SaturatedFat:  n.SaturatedFat,
		Cholesterol:   n.Cholesterol,
	}
}

type bareNutritionJSON struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	TotalFat      float64 `json:"total_fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Sodium        float64 `json:"sodium"`
	Calcium       float64 `json:"calcium"`
	Iron          float64 `json:"iron"`
	SaturatedFat  float64 `json:"saturated_fat"`
	Cholesterol   float64 `json:"cholesterol"`
}

func (n *bareNutritionJSON) model() Nutrition {
	return Nutrition{
		Calories:      n.Calories,
		Protein:       n.Protein,
		TotalFat:      n.TotalFat,
		Carbohydrates: n.Carbohydrates,
		Fiber:         n.Fiber,
		Sugar:         n.Sugar,
		Sodium:        n.Sodium,
		Calcium:       n.Calcium,
		Iron:          n.Iron,
		SaturatedFat:  n.SaturatedFat,
		Cholesterol:   n.Cholesterol,
	}
}

type ingredientJSON struct {
	Success            bool                `json:"success"`
	Ingredient         string              `json:"ingredient"`
	ProcessingTimeMS   float64             `json:"processing_time_ms"`
	FromCache          bool                `json:"from_cache"`
	Nutrition          *totalNutritionJSON `json:"nutrition"`
	USDAMatch          *USDAMatch          `json:"usda_match"`
	VerificationURL    string              `json:"verification_url"`
	ConfidenceScore    float64             `json:"confidence_score"`
	VerificationMethod string              `json:"verification_method"`
	Error              string              `json:"error"`
}

func (p *ingredientJSON) model(requested string) IngredientResult {
	if !p.Success {
		msg := p.Error
		if msg == "" {
			msg = "unknown error"
		}
		return IngredientResult{
			Success:          false,
			Ingredient:       requested,
			ProcessingTimeMS: p.ProcessingTimeMS,
			Error:            msg,
		}
	}

	out := IngredientResult{
		Success:            true,
		Ingredient:         p.Ingredient,
		ProcessingTimeMS:   p.ProcessingTimeMS,
		FromCache:          p.FromCache,
		USDAMatch:          p.USDAMatch,
		VerificationURL:    p.VerificationURL,
		ConfidenceScore:    p.ConfidenceScore,
		VerificationMethod: p.VerificationMethod,
	}
	if out.Ingredient == "" {
		out.Ingredient = requested
	}
	if p.Nutrition != nil {
		n := p.Nutrition.model()
		out.Nutrition = &n
	}
	return out
}

func parseIngredientResult(data []byte, requested string) (*IngredientResult, error) {
	var p ingredientJSON
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode ingredient response: %w", err)
	}
	out := p.model(requested)
	return &out, nil
}

type recipeIngredientJSON struct {
	Ingredient string             `json:"ingredient"`
	Nutrition  *bareNutritionJSON `json:"nutrition"`
	USDAMatch  *USDAMatch         `json:"usda_match"`
	Success    *bool              `json:"success"` // absent means succeeded
}

type recipeJSON struct {
	Success   bool `json:"success"`
	Nutrition struct {
		Total       *bareNutritionJSON     `json:"total"`
		PerServing  *bareNutritionJSON     `json:"per_serving"`
		Ingredients []recipeIngredientJSON `json:"ingredients"`
	} `json:"nutrition"`
	ProcessingTimeMS float64 `json:"processing_time_ms"`
	USDAMatches      int     `json:"usda_matches"`
	Error            string  `json:"error"`
}

func parseRecipeResult(data []byte, ingredients []string, servings int) (*RecipeResult, error) {
	var p recipeJSON
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode recipe response: %w", err)
	}

	out := RecipeResult{
		Recipe:           Recipe{Ingredients: ingredients, Servings: servings},
		ProcessingTimeMS: p.ProcessingTimeMS,
	}
	if !p.Success {
		out.Error = p.Error
		if out.Error == "" {
			out.Error = "unknown error"
		}
		return &out, nil
	}

	out.Success = true
	out.USDAMatches = p.USDAMatches

	nutrition := &RecipeNutrition{}
	if p.Nutrition.Total != nil {
		nutrition.Total = p.Nutrition.Total.model()
	}
	if p.Nutrition.PerServing != nil {
		nutrition.PerServing = p.Nutrition.PerServing.model()
	}
	for _, item := range p.Nutrition.Ingredients {
		ri := RecipeIngredient{
			Ingredient: item.Ingredient,
			USDAMatch:  item.USDAMatch,
			Success:    item.Success == nil || *item.Success,
		}
		if item.Nutrition != nil {
			ri.Nutrition = item.Nutrition.model()
		}
		nutrition.Ingredients = append(nutrition.Ingredients, ri)
	}
	out.Nutrition = nutrition
	return &out, nil
}

type batchJSON struct {
	Success           bool             `json:"success"`
	BatchSize         *int             `json:"batch_size"`
	SuccessfulMatches int              `json:"successful_matches"`
	Results           []ingredientJSON `json:"results"`
	ProcessingTimeMS  float64          `json:"processing_time_ms"`
}

func parseBatchResult(data []byte, ingredients []string) (*BatchResult, error) {
	var p batchJSON
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode batch response: %w", err)
	}

	out := BatchResult{
		Success:           p.Success,
		BatchSize:         len(ingredients),
		SuccessfulMatches: p.SuccessfulMatches,
		ProcessingTimeMS:  p.ProcessingTimeMS,
	}
	if p.BatchSize != nil {
		out.BatchSize = *p.BatchSize
	}
	for _, item := range p.Results {
		out.Results = append(out.Results, item.model(item.Ingredient))
	}
	return &out, nil
}

type accountJSON struct {
	Account struct {
		Email              string `json:"email"`
		APITier            string `json:"api_tier"`
		SubscriptionStatus string `json:"subscription_status"`
	} `json:"account"`
	Usage struct {
		CurrentMonth   int     `json:"current_month"`
		MonthlyLimit   *int    `json:"monthly_limit"`
		Remaining      int     `json:"remaining"`
		PercentageUsed float64 `json:"percentage_used"`
		ResetDate      string  `json:"reset_date"`
		DaysUntilReset int     `json:"days_until_reset"`
		BatchLimit     *int    `json:"batch_limit"`
	} `json:"usage"`
}

func parseAccount(data []byte) (*Account, error) {
	var p accountJSON
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode account response: %w", err)
	}

	batchLimit := 1
	if p.Usage.BatchLimit != nil {
		batchLimit = *p.Usage.BatchLimit
	}

	return &Account{
		Email:              p.Account.Email,
		APITier:            p.Account.APITier,
		SubscriptionStatus: p.Account.SubscriptionStatus,
		Usage: Usage{
			CurrentMonth:   p.Usage.CurrentMonth,
			MonthlyLimit:   p.Usage.MonthlyLimit,
			Remaining:      p.Usage.Remaining,
			PercentageUsed: p.Usage.PercentageUsed,
			ResetDate:      p.Usage.ResetDate,
			DaysUntilReset: p.Usage.DaysUntilReset,
		},
		Features: DeriveFeatures(p.Account.APITier, batchLimit),
	}, nil
}
