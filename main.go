// aigo-board is a terminal client for playing a 9x9 stone game against an AI game server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"aigo-board/config"
	"aigo-board/engine/httpapi"
	"aigo-board/export"
	"aigo-board/game"
	"aigo-board/render"
	"aigo-board/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagServer   = flag.String("server", "", "Game server base URL (overrides config and "+config.EnvServerURL+")")
	flagSnapshot = flag.String("snapshot", "", "Fetch the board once, write it as PNG to this file and exit")
	flagVersion  = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("aigo-board %s\n", Version)
		return
	}

	cfg, err := config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *flagServer != "" {
		cfg.Server.URL = *flagServer
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	logger, err := NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	client, err := httpapi.NewClient(cfg.Server.URL, &http.Client{}, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *flagSnapshot != "" {
		if err := writeSnapshot(ctx, client, *flagSnapshot); err != nil {
			logger.Errorw("snapshot failed", "error", err)
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(*flagSnapshot)
		return
	}

	logger.Infow("starting", "version", Version, "server", client.BaseURL())
	if err := runUI(ctx, cfg, client, logger); err != nil {
		logger.Errorw("ui stopped", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewLogger builds a production zap logger writing to the configured log
// file, since the terminal belongs to the UI.
func NewLogger(cfg *config.Config) (*zap.SugaredLogger, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, fmt.Errorf("locate log file: %w", err)
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}

// writeSnapshot fetches the board once and saves it as a PNG.
func writeSnapshot(ctx context.Context, client *httpapi.Client, path string) error {
	snap, err := client.GetBoard(ctx)
	if err != nil {
		return err
	}
	raster := render.NewRaster(render.DefaultGeometry, render.DefaultPalette)
	raster.Render(snap)
	return raster.SavePNG(path)
}

func runUI(ctx context.Context, cfg *config.Config, client *httpapi.Client, log *zap.SugaredLogger) error {
	app := tview.NewApplication()
	app.EnableMouse(true)
	rootPage := tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ⬡ aigo-board ")

	status := ui.NewStatusPanel(client.BaseURL())
	board := ui.NewBoardView(app, cfg, status)

	// run executes op off the UI goroutine; the controller reports its own
	// failures to the user.
	run := func(name string, op func(context.Context) error) {
		go func() {
			if err := op(ctx); err != nil {
				log.Debugw("operation finished with error", "op", name, "error", err)
			}
		}()
	}

	var ctrl *game.Controller
	raster := render.NewRaster(render.DefaultGeometry, render.DefaultPalette)

	var alerts *ui.Alerts
	exportBoard := func() {
		go func() {
			files, err := export.Save(export.Board{
				Snapshot: ctrl.Snapshot(),
				Player:   ctrl.State().Color,
				Result:   ctrl.Result(),
			}, raster, time.Now(), config.ExportPath)
			if err != nil {
				log.Errorw("export failed", "error", err)
				alerts.Alert(fmt.Sprintf("Export failed: %s", err))
				return
			}
			log.Infow("board exported", "png", files.PNG, "sgf", files.SGF)
			alerts.Alert(fmt.Sprintf("Board exported to\n%s\n%s", files.PNG, files.SGF))
		}()
	}

	controls := ui.NewControls(ui.Actions{
		Start:  func() { run("start", ctrl.Start) },
		Color:  func() { go ctrl.ToggleColor() },
		Reset:  func() { run("reset", ctrl.ResetBoard) },
		Export: exportBoard,
		Quit:   app.Stop,
	})

	gameFrame := ui.CreateGameLayout(board, status, controls)
	rootPage.AddPage("gameview", gameFrame, true, true)
	alerts = ui.NewAlerts(app, rootPage)

	ctrl = game.NewController(client, board, alerts, log)
	status.SetStateSource(ctrl.State)
	board.SetSelectFunc(func(col, row int) {
		run("click", func(ctx context.Context) error { return ctrl.Click(ctx, col, row) })
	})

	focusMode := false
	gameFrame.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyTab {
			if board.Box.HasFocus() && !focusMode {
				app.SetFocus(controls.Form())
			} else {
				app.SetFocus(board.Box)
			}
			return nil
		}
		if event.Key() != tcell.KeyRune {
			return event
		}
		switch event.Rune() {
		case 'q':
			if board.SelectedTile() != nil {
				board.ResetSelection()
			} else {
				app.Stop()
			}
		case 'f':
			focusMode = status.ToggleFocusMode()
			if focusMode {
				ui.BuildFocusLayout(gameFrame, board)
			} else {
				ui.RebuildNormalLayout(gameFrame, board, status, controls)
			}
			app.SetFocus(board.Box)
		case 's', 'c', 'r', 'e':
			controls.Press(map[rune]string{'s': "Start", 'c': "Color", 'r': "Reset", 'e': "Export"}[event.Rune()])
		default:
			return event
		}
		return nil
	})

	run("fetch", ctrl.FetchBoard)

	return app.SetRoot(rootPage, true).SetFocus(board.Box).Run()
}
