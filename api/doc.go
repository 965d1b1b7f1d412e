// Package api is the typed client for the Avocavo nutrition-analysis HTTP
// API: ingredient, recipe, and batch lookups, account usage, API key
// management, and the unauthenticated health probe.
//
// All analysis happens server-side; this package builds authenticated
// requests, maps HTTP outcomes onto a small error taxonomy, and normalizes
// JSON payloads into typed results.
//
//	client, err := api.NewClient("") // key from login session or AVOCAVO_API_KEY
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := client.AnalyzeIngredient(ctx, "2 cups flour")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.Success {
//		fmt.Println(result.Nutrition.Calories)
//	}
package api
