package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground: true,
		UseGridLines:         true,
		Colors: ConfigColors{
			BoardColor:    180,
			BlackColor:    232,
			WhiteColor:    255,
			LineColor:     94,
			CursorColorFG: 2,
			CursorColorBG: 4,
		},
		Symbols: ConfigSymbols{
			BlackStone:  "●",
			WhiteStone:  "●",
			BoardSquare: "┼",
			Cursor:      "┼",
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Server: ServerConfig{
			URL: "http://127.0.0.1:5000",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
