package app

import "fmt"

// Timeframe is the bar period in minutes.
type Timeframe int

func (t Timeframe) String() string {
	switch t {
	case 1:
		return "M1"
	case 5:
		return "M5"
	case 15:
		return "M15"
	case 30:
		return "M30"
	case 60:
		return "H1"
	case 240:
		return "H4"
	case 1440:
		return "D1"
	default:
		return fmt.Sprintf("%dm", int(t))
	}
}
