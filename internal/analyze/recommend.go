package analyze

// baselineRecommendations are always present, in this order, regardless of
// the concern picture.
var baselineRecommendations = []string{
	"Cleanse skin twice daily with gentle cleanser",
	"Apply broad-spectrum SPF 30+ every morning",
	"Moisturize daily based on your skin type",
}

// skinTypeRecommendations adds one line keyed by the classified type.
var skinTypeRecommendations = map[SkinType]string{
	SkinTypeDry:         "Use a rich, hydrating moisturizer with hyaluronic acid",
	SkinTypeOily:        "Choose oil-free, non-comedogenic products with niacinamide",
	SkinTypeCombination: "Use lightweight moisturizer, focus heavier products on dry areas",
	SkinTypeNormal:      "Maintain your routine with balanced, gentle products",
	SkinTypeSensitive:   "Use fragrance-free, hypoallergenic products with ceramides",
}

// concernRecommendations is the fixed per-concern lookup. Up to the first
// two entries per detected concern are appended to the result.
var concernRecommendations = map[Concern][]string{
	ConcernAcne: {
		"Use a gentle cleanser with salicylic acid",
		"Apply benzoyl peroxide spot treatment",
		"Consider retinoid products for prevention",
		"Avoid touching your face frequently",
	},
	ConcernWrinkles: {
		"Use retinol-based products at night",
		"Apply vitamin C serum in the morning",
		"Use broad-spectrum SPF 30+ daily",
		"Consider peptide-based moisturizers",
	},
	ConcernDarkSpots: {
		"Use vitamin C serum daily",
		"Apply niacinamide products",
		"Use AHA exfoliants 2-3 times weekly",
		"Always wear sunscreen SPF 30+",
	},
	ConcernDarkCircles: {
		"Get adequate sleep (7-9 hours)",
		"Use caffeine-based eye creams",
		"Apply vitamin K eye treatments",
		"Stay hydrated throughout the day",
	},
	ConcernLargePores: {
		"Use niacinamide serum regularly",
		"Apply BHA (salicylic acid) products",
		"Use clay masks weekly",
		"Keep skin properly hydrated",
	},
	ConcernRedness: {
		"Use gentle, fragrance-free products",
		"Apply azelaic acid treatments",
		"Consider centella asiatica products",
		"Avoid hot water on face",
	},
	ConcernDehydration: {
		"Use hyaluronic acid serums",
		"Apply ceramide-rich moisturizers",
		"Drink adequate water daily",
		"Use a humidifier in dry environments",
	},
	ConcernDryness: {
		"Add a hydrating serum with hyaluronic acid",
		"Switch to a cream cleanser",
		"Apply occlusive moisturizer at night",
	},
	ConcernOiliness: {
		"Use a foaming cleanser with salicylic acid",
		"Apply a lightweight gel moisturizer",
		"Blot excess oil during the day instead of washing",
	},
	ConcernUnevenTexture: {
		"Use AHA exfoliants 2-3 times weekly",
		"Apply retinol to smooth texture over time",
	},
	ConcernHyperpigmentation: {
		"Use vitamin C serum in the morning",
		"Apply tranexamic acid or kojic acid treatments",
		"Wear sunscreen SPF 50+ to prevent darkening",
	},
	ConcernSensitivity: {
		"Use fragrance-free, hypoallergenic products",
		"Patch test new products before full use",
		"Look for ceramide and panthenol ingredients",
	},
}

// affectedAreas labels where each concern typically presents.
var affectedAreas = map[Concern]string{
	ConcernAcne:              "face",
	ConcernWrinkles:          "forehead, eye area",
	ConcernDarkSpots:         "face",
	ConcernDarkCircles:       "under eyes",
	ConcernLargePores:        "nose, cheeks",
	ConcernRedness:           "cheeks, nose",
	ConcernDryness:           "cheeks",
	ConcernOiliness:          "t-zone",
	ConcernUnevenTexture:     "face",
	ConcernHyperpigmentation: "face",
	ConcernDehydration:       "face",
	ConcernSensitivity:       "face",
}

// fallbackRecommendations replace the usual list when both analysis paths
// failed and only the documented fallback result can be returned.
var fallbackRecommendations = []string{
	"Unable to complete full analysis",
	"Please try again with a clearer image",
	"Ensure good lighting and face the camera directly",
}
