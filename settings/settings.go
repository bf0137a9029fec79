package settings

import (
	"bytes"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/exp/shiny/materialdesign/colornames"
	"golang.org/x/image/font/gofont/goregular"

	"candleview/chart"
)

var (
	Scale = float32(ebiten.Monitor().DeviceScaleFactor())

	// Colors
	Black = color.RGBA{12, 14, 17, 255}
	Red   = color.RGBA{246, 71, 93, 255}

	// APP
	BackgroundColor = color.RGBA{19, 23, 34, 255}

	// App header
	AppHeaderHeight = 40 * Scale

	// App footer
	AppFooterHeight = 24 * Scale

	PanelBackgroundColor = color.RGBA{23, 26, 32, 255}
	PanelPadding         = 12 * Scale

	MenuButtonHoverBg = colornames.Orange300
	MenuButtonClickBg = colornames.Orange600

	ColorPrimary        = colornames.Orange300
	ColorPrimaryLighter = colornames.Orange100
	ColorPrimaryDarker  = colornames.Orange600

	WarningColor = Red

	ChartTheme = chart.DefaultTheme()

	FontSM text.Face

	// Buttons
	PanChartButton = ebiten.MouseButtonLeft
	ZoomKey        = ebiten.KeyShift
	ReloadKey      = ebiten.KeyF5

	// Below this window size the chart is cramped.
	MinScreenWidth  = 800
	MinScreenHeight = 600

	Timeframes = []TimeframeConfig{
		{Minutes: 1},
		{Minutes: 5},
		{Minutes: 15},
		{Minutes: 30},
		{Minutes: 60},
		{Minutes: 240},
		{Minutes: 1440},
	}
)

type TimeframeConfig struct {
	Minutes  int
	Disabled bool
}

func init() {
	FontSM, _ = LoadFont(12)
}

func LoadFont(size float64) (text.Face, error) {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}

	return &text.GoTextFace{
		Source: s,
		Size:   size * ebiten.Monitor().DeviceScaleFactor(),
	}, nil
}
