package assistant

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a free-text query.
type Intent string

// Supported intents.
const (
	IntentGreeting   Intent = "greeting"
	IntentThanks     Intent = "thanks"
	IntentSpending   Intent = "spending"
	IntentSavings    Intent = "savings"
	IntentBudget     Intent = "budget"
	IntentHealth     Intent = "health"
	IntentGoals      Intent = "goals"
	IntentAdvice     Intent = "advice"
	IntentAnalysis   Intent = "analysis"
	IntentComparison Intent = "comparison"
	IntentGeneral    Intent = "general"
)

type intentPattern struct {
	pattern *regexp.Regexp
	intent  Intent
}

// Evaluated in order; the conversational intents come first so that a
// greeting followed by a question stays a greeting.
var intentPatterns = []intentPattern{
	{intent: IntentGreeting, pattern: regexp.MustCompile(`^(hi|hello|hey|good morning|good afternoon|good evening|sup|yo)`)},
	{intent: IntentThanks, pattern: regexp.MustCompile(`thank|thanks|appreciate|grateful`)},
	{intent: IntentSpending, pattern: regexp.MustCompile(`spend|expense|cost|paid|bought|purchase`)},
	{intent: IntentSavings, pattern: regexp.MustCompile(`save|saving|emergency fund|nest egg`)},
	{intent: IntentBudget, pattern: regexp.MustCompile(`budget|limit|allocat|plan`)},
	{intent: IntentHealth, pattern: regexp.MustCompile(`health|score|status|doing|perform`)},
	{intent: IntentGoals, pattern: regexp.MustCompile(`goal|target|aim|objective`)},
	{intent: IntentAdvice, pattern: regexp.MustCompile(`tip|advice|recommend|suggest|help|how to|what should`)},
	{intent: IntentAnalysis, pattern: regexp.MustCompile(`analyz|review|look at|check|examine|breakdown`)},
	{intent: IntentComparison, pattern: regexp.MustCompile(`compar|versus|vs|better|worse`)},
}

// Classify returns the first intent whose pattern matches the lower-cased
// query, or IntentGeneral.
func Classify(query string) Intent {
	lower := strings.ToLower(strings.TrimSpace(query))
	for _, p := range intentPatterns {
		if p.pattern.MatchString(lower) {
			return p.intent
		}
	}
	return IntentGeneral
}
