package metrics

import "strings"

// modelPrice is USD per 1M tokens.
type modelPrice struct {
	input  float64
	output float64
}

// Published list prices, updated manually. Unknown models fall back to
// defaultPrice so estimates stay conservative rather than zero.
var modelPrices = map[string]modelPrice{
	"claude-sonnet-4":  {input: 3.00, output: 15.00},
	"claude-haiku-3.5": {input: 0.80, output: 4.00},
	"gpt-4o":           {input: 2.50, output: 10.00},
	"gpt-4o-mini":      {input: 0.15, output: 0.60},
	"gemini-2.0-flash": {input: 0.10, output: 0.40},
	"gemini-1.5-pro":   {input: 1.25, output: 5.00},
}

var defaultPrice = modelPrice{input: 3.00, output: 15.00}

// EstimateCost returns the estimated USD cost of a call given its token
// usage. Model matching is by longest known prefix so dated releases
// ("claude-sonnet-4-20250514") resolve to their base price.
func EstimateCost(model string, promptTokens, completionTokens int) float64 {
	price := defaultPrice
	bestLen := 0
	for name, p := range modelPrices {
		if strings.HasPrefix(model, name) && len(name) > bestLen {
			price = p
			bestLen = len(name)
		}
	}
	return float64(promptTokens)/1e6*price.input + float64(completionTokens)/1e6*price.output
}
