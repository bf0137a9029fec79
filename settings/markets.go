package settings

import "sort"

const (
	BrokerAdvanced = "Advanced"
)

// Markets lists the symbols offered per broker.
var Markets = map[string][]string{
	BrokerAdvanced: {"EURUSD", "USDJPY", "GBPUSD"},
}

// SymbolNames returns the sorted symbol names of broker. A broker that is
// not listed offers only fallback.
func SymbolNames(broker, fallback string) []string {
	symbols, ok := Markets[broker]
	if !ok {
		return []string{fallback}
	}
	names := append([]string(nil), symbols...)
	sort.Strings(names)
	return names
}
