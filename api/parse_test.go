package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIngredient_Success_FullPayload(t *testing.T) {
	body := []byte(`{
		"success": true,
		"ingredient": "1 cup rice",
		"processing_time_ms": 42.5,
		"from_cache": true,
		"nutrition": {
			"calories_total": 205,
			"protein_total": 4.3,
			"total_fat_total": 0.4,
			"carbohydrates_total": 44.5,
			"fiber_total": 0.6,
			"sugar_total": 0.1,
			"sodium_total": 1.6,
			"calcium_total": 15.8,
			"iron_total": 1.9,
			"saturated_fat_total": 0.1,
			"cholesterol_total": 0
		},
		"usda_match": {"fdc_id": 168878, "description": "Rice, white, cooked", "data_type": "SR Legacy"},
		"verification_url": "https://fdc.nal.usda.gov/food/168878",
		"confidence_score": 0.97,
		"verification_method": "exact"
	}`)

	got, err := parseIngredientResult(body, "1 cup rice")
	require.NoError(t, err)

	require.True(t, got.Success)
	require.Equal(t, "1 cup rice", got.Ingredient)
	require.Equal(t, 42.5, got.ProcessingTimeMS)
	require.True(t, got.FromCache)
	require.NotNil(t, got.Nutrition)
	require.Equal(t, 205.0, got.Nutrition.Calories)
	require.Equal(t, 4.3, got.Nutrition.Protein)
	require.NotNil(t, got.USDAMatch)
	require.Equal(t, 168878, got.USDAMatch.FDCID)
	require.Equal(t, "SR Legacy", got.USDAMatch.DataType)
	require.Equal(t, 0.97, got.ConfidenceScore)
	require.Empty(t, got.Error)
}

func TestParseIngredient_Failure_NoNutritionSubstructure(t *testing.T) {
	body := []byte(`{"success": false, "error": "no match found", "processing_time_ms": 3, "confidence_score": 0.9}`)

	got, err := parseIngredientResult(body, "2 cups moon dust")
	require.NoError(t, err)

	require.False(t, got.Success)
	require.Nil(t, got.Nutrition)
	require.Nil(t, got.USDAMatch)
	require.Equal(t, "2 cups moon dust", got.Ingredient)
	require.Equal(t, "no match found", got.Error)
	// failure results carry only the identifying fields
	require.Zero(t, got.ConfidenceScore)
}

func TestParseIngredient_Failure_DefaultErrorMessage(t *testing.T) {
	got, err := parseIngredientResult([]byte(`{"success": false}`), "x")
	require.NoError(t, err)
	require.Equal(t, "unknown error", got.Error)
}

func TestParseIngredient_AbsentNutrients_DefaultToZero(t *testing.T) {
	body := []byte(`{"success": true, "ingredient": "water", "nutrition": {}}`)

	got, err := parseIngredientResult(body, "water")
	require.NoError(t, err)
	require.NotNil(t, got.Nutrition)

	n := got.Nutrition
	for name, v := range map[string]float64{
		"calories":      n.Calories,
		"protein":       n.Protein,
		"total_fat":     n.TotalFat,
		"carbohydrates": n.Carbohydrates,
		"fiber":         n.Fiber,
		"sugar":         n.Sugar,
		"sodium":        n.Sodium,
		"calcium":       n.Calcium,
		"iron":          n.Iron,
		"saturated_fat": n.SaturatedFat,
		"cholesterol":   n.Cholesterol,
	} {
		require.Zerof(t, v, "nutrient %s should default to 0", name)
	}
}

func TestParseIngredient_PartialNutrition_MissingFieldsZero(t *testing.T) {
	body := []byte(`{"success": true, "ingredient": "butter", "nutrition": {"calories_total": 102, "total_fat_total": 11.5}}`)

	got, err := parseIngredientResult(body, "butter")
	require.NoError(t, err)
	require.Equal(t, 102.0, got.Nutrition.Calories)
	require.Equal(t, 11.5, got.Nutrition.TotalFat)
	require.Zero(t, got.Nutrition.Protein)
	require.Zero(t, got.Nutrition.Cholesterol)
}

func TestParseRecipe_Success_NestedBlocks(t *testing.T) {
	body := []byte(`{
		"success": true,
		"processing_time_ms": 120,
		"usda_matches": 2,
		"nutrition": {
			"total": {"calories": 800, "protein": 24},
			"per_serving": {"calories": 100, "protein": 3},
			"ingredients": [
				{"ingredient": "2 cups flour", "nutrition": {"calories": 700}, "usda_match": {"fdc_id": 168936, "description": "Flour", "data_type": "SR Legacy"}},
				{"ingredient": "1 pinch saffron", "success": false}
			]
		}
	}`)

	got, err := parseRecipeResult(body, []string{"2 cups flour", "1 pinch saffron"}, 8)
	require.NoError(t, err)

	require.True(t, got.Success)
	require.Equal(t, []string{"2 cups flour", "1 pinch saffron"}, got.Recipe.Ingredients)
	require.Equal(t, 8, got.Recipe.Servings)
	require.Equal(t, 2, got.USDAMatches)

	require.NotNil(t, got.Nutrition)
	require.Equal(t, 800.0, got.Nutrition.Total.Calories)
	require.Equal(t, 100.0, got.Nutrition.PerServing.Calories)
	require.Zero(t, got.Nutrition.PerServing.Sodium)

	require.Len(t, got.Nutrition.Ingredients, 2)
	first := got.Nutrition.Ingredients[0]
	require.True(t, first.Success) // absent success means succeeded
	require.Equal(t, 700.0, first.Nutrition.Calories)
	require.NotNil(t, first.USDAMatch)
	require.Equal(t, 168936, first.USDAMatch.FDCID)

	second := got.Nutrition.Ingredients[1]
	require.False(t, second.Success)
	require.Nil(t, second.USDAMatch)
	require.Zero(t, second.Nutrition.Calories)
}

func TestParseRecipe_Failure_EchoesRecipeParameters(t *testing.T) {
	got, err := parseRecipeResult([]byte(`{"success": false, "error": "too many ingredients"}`), []string{"a", "b"}, 2)
	require.NoError(t, err)

	require.False(t, got.Success)
	require.Nil(t, got.Nutrition)
	require.Equal(t, "too many ingredients", got.Error)
	require.Equal(t, []string{"a", "b"}, got.Recipe.Ingredients)
	require.Equal(t, 2, got.Recipe.Servings)
}

func TestParseBatch_Success(t *testing.T) {
	body := []byte(`{
		"success": true,
		"batch_size": 2,
		"successful_matches": 1,
		"processing_time_ms": 55,
		"results": [
			{"success": true, "ingredient": "1 cup quinoa", "nutrition": {"calories_total": 222}},
			{"success": false, "ingredient": "1 cup unobtainium", "error": "no match found"}
		]
	}`)

	got, err := parseBatchResult(body, []string{"1 cup quinoa", "1 cup unobtainium"})
	require.NoError(t, err)

	require.True(t, got.Success)
	require.Equal(t, 2, got.BatchSize)
	require.Equal(t, 1, got.SuccessfulMatches)
	require.Len(t, got.Results, 2)
	require.True(t, got.Results[0].Success)
	require.Equal(t, 222.0, got.Results[0].Nutrition.Calories)
	require.False(t, got.Results[1].Success)
	require.Equal(t, "1 cup unobtainium", got.Results[1].Ingredient)
}

func TestParseBatch_MissingBatchSize_DefaultsToRequestCount(t *testing.T) {
	got, err := parseBatchResult([]byte(`{"success": true, "results": []}`), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Equal(t, 3, got.BatchSize)
}

func TestParseAccount_MergesAccountAndUsage(t *testing.T) {
	body := []byte(`{
		"account": {"email": "user@example.com", "api_tier": "starter", "subscription_status": "active"},
		"usage": {
			"current_month": 120,
			"monthly_limit": 5000,
			"remaining": 4880,
			"percentage_used": 2.4,
			"reset_date": "2025-02-01",
			"days_until_reset": 12,
			"batch_limit": 25
		}
	}`)

	got, err := parseAccount(body)
	require.NoError(t, err)

	require.Equal(t, "user@example.com", got.Email)
	require.Equal(t, "starter", got.APITier)
	require.Equal(t, "active", got.SubscriptionStatus)
	require.Equal(t, 120, got.Usage.CurrentMonth)
	require.NotNil(t, got.Usage.MonthlyLimit)
	require.Equal(t, 5000, *got.Usage.MonthlyLimit)
	require.Equal(t, 12, got.Usage.DaysUntilReset)
	require.True(t, got.Features.BatchProcessing)
	require.True(t, got.Features.AnalyticsDashboard)
	require.False(t, got.Features.PrioritySupport)
	require.Equal(t, 25, got.Features.MaxBatchSize)
}

func TestParseAccount_NullMonthlyLimit_MeansUnlimited(t *testing.T) {
	body := []byte(`{"account": {"api_tier": "enterprise"}, "usage": {"monthly_limit": null}}`)

	got, err := parseAccount(body)
	require.NoError(t, err)
	require.Nil(t, got.Usage.MonthlyLimit)
	require.True(t, got.Features.CustomIntegrations)
	// batch_limit absent defaults to 1
	require.Equal(t, 1, got.Features.MaxBatchSize)
}

func TestDeriveFeatures_CaseInsensitive(t *testing.T) {
	f := DeriveFeatures("Professional", 10)
	require.True(t, f.PrioritySupport)
	require.True(t, f.BatchProcessing)
	require.True(t, f.WebhookNotifications)
	require.True(t, f.AnalyticsDashboard)
	require.False(t, f.CustomIntegrations)
	require.Equal(t, 10, f.MaxBatchSize)
}

func TestDeriveFeatures_UnknownTier_NoFeatures(t *testing.T) {
	f := DeriveFeatures("free", 1)
	require.False(t, f.BatchProcessing)
	require.False(t, f.PrioritySupport)
	require.False(t, f.AnalyticsDashboard)
	require.False(t, f.WebhookNotifications)
	require.False(t, f.CustomIntegrations)
}

func TestMaskKey(t *testing.T) {
	require.Equal(t, "avc_12345678...", MaskKey("avc_12345678rest_of_key"))
	require.Equal(t, "short...", MaskKey("short"))
}
