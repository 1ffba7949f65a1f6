package app

// Panel is the view the user is looking at.
type Panel uint8

const (
	PanelCarousel Panel = iota
	PanelInfo
	PanelClock
	PanelDebug
	PanelAbout
)

func (p Panel) String() string {
	switch p {
	case PanelCarousel:
		return "carousel"
	case PanelInfo:
		return "info"
	case PanelClock:
		return "clock"
	case PanelDebug:
		return "debug"
	case PanelAbout:
		return "about"
	default:
		return "unknown"
	}
}

// Carousel entries, in selection-index order.
var menuItems = []string{"Profile", "Clock", "Debug", "About"}

var menuPanels = [...]Panel{PanelInfo, PanelClock, PanelDebug, PanelAbout}

// DefaultSelection puts the clock under the cursor at power-on.
const DefaultSelection = 1

// UIState is the scheduler's view state. The initial state is the carousel.
type UIState struct {
	Panel    Panel
	Selected int
}
