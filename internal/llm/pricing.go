package llm

import (
	"strings"

	"askpdf/internal/domain"
)

// ModelPricing holds per-token costs for a model.
type ModelPricing struct {
	InputPerMToken  float64 // Cost per million prompt tokens
	OutputPerMToken float64 // Cost per million completion tokens
}

// DefaultPricingMatrix maps model ID prefixes to their pricing in USD.
var DefaultPricingMatrix = map[string]ModelPricing{
	"gpt-3.5-turbo":     {InputPerMToken: 1.50, OutputPerMToken: 2.0},
	"gpt-3.5-turbo-16k": {InputPerMToken: 3.0, OutputPerMToken: 4.0},
	"gpt-4":             {InputPerMToken: 30.0, OutputPerMToken: 60.0},
	"gpt-4-32k":         {InputPerMToken: 60.0, OutputPerMToken: 120.0},
	"gpt-4-turbo":       {InputPerMToken: 10.0, OutputPerMToken: 30.0},
	"gpt-4o":            {InputPerMToken: 2.50, OutputPerMToken: 10.0},
}

// PricingForModel returns the pricing for a given model. Date-suffixed names
// such as gpt-3.5-turbo-16k-0613 resolve to the longest matching prefix.
// Unknown models cost nothing.
func PricingForModel(model string) ModelPricing {
	if model == "" {
		return ModelPricing{}
	}
	if pricing, ok := DefaultPricingMatrix[model]; ok {
		return pricing
	}
	best := ""
	for prefix := range DefaultPricingMatrix {
		if strings.HasPrefix(model, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	return DefaultPricingMatrix[best]
}

// CalculateCost returns the cost in USD of a call with the given usage.
func CalculateCost(model string, usage domain.Usage) float64 {
	pricing := PricingForModel(model)
	inputCost := float64(usage.PromptTokens) / 1_000_000.0 * pricing.InputPerMToken
	outputCost := float64(usage.CompletionTokens) / 1_000_000.0 * pricing.OutputPerMToken
	return inputCost + outputCost
}
