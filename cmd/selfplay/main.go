// Command selfplay runs unattended Reversi matches between engine
// strategies and exports board snapshots.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jaminalder/reversi/internal/ai"
	"github.com/jaminalder/reversi/internal/app"
	"github.com/jaminalder/reversi/internal/config"
	"github.com/jaminalder/reversi/internal/domain"
)

type options struct {
	cfgPath  string
	red      string
	white    string
	depth    int
	discs    int
	captures int
	all      bool
	out      string
	seed     uint64
	games    int
	parallel int
}

func main() {
	var o options
	flag.StringVar(&o.cfgPath, "config", "", "path to a YAML config file")
	flag.StringVar(&o.red, "red", "", "Red strategy: first, random, h1, h2, minimax")
	flag.StringVar(&o.white, "white", "", "White strategy: first, random, h1, h2, minimax")
	flag.IntVar(&o.depth, "depth", 0, "look-ahead depth for h1/minimax")
	flag.IntVar(&o.discs, "discs", -1, "stop once this many discs are on the board (0 plays to the end)")
	flag.IntVar(&o.captures, "captures", -1, "export snapshots of the first N steps")
	flag.BoolVar(&o.all, "all", false, "export every step after the match")
	flag.StringVar(&o.out, "out", "", "snapshot directory (overrides export.dir)")
	flag.Uint64Var(&o.seed, "seed", 0, "random seed (0 uses the clock)")
	flag.IntVar(&o.games, "games", 1, "number of matches to play")
	flag.IntVar(&o.parallel, "parallel", 4, "matches played at once")
	flag.Parse()

	if err := run(o); err != nil {
		fmt.Fprintln(os.Stderr, "selfplay:", err)
		os.Exit(1)
	}
}

// merge applies the flags that were set on top of the file config.
func merge(cfg config.Config, o options) config.Config {
	if o.red != "" {
		cfg.Match.Red = o.red
	}
	if o.white != "" {
		cfg.Match.White = o.white
	}
	if o.depth > 0 {
		cfg.Match.Depth = o.depth
	}
	if o.discs >= 0 {
		cfg.Match.TargetDiscs = o.discs
	}
	if o.captures >= 0 {
		cfg.Match.Captures = o.captures
	}
	if o.seed != 0 {
		cfg.Match.Seed = o.seed
	}
	if o.out != "" {
		cfg.Export.Dir = o.out
	}
	return cfg
}

func run(o options) error {
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return err
	}
	cfg = merge(cfg, o)
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := cfg.Log.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	red, white, err := cfg.Match.Strategies()
	if err != nil {
		return err
	}
	seed := cfg.Match.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	mc := app.MatchConfig{Red: red, White: white, TargetDiscs: cfg.Match.TargetDiscs}
	log.Info("starting",
		zap.Stringer("red", red),
		zap.Stringer("white", white),
		zap.Int("target_discs", mc.TargetDiscs),
		zap.Int("games", o.games),
		zap.Uint64("seed", seed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		mu    sync.Mutex
		tally = map[domain.Cell]int{}
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(o.parallel, 1))
	for i := 0; i < max(o.games, 1); i++ {
		dir := cfg.Export.Dir
		if o.games > 1 {
			dir = filepath.Join(dir, fmt.Sprintf("game_%d", i))
		}
		m := matchRun{
			index:    i,
			dir:      dir,
			captures: cfg.Match.Captures,
			all:      o.all,
			cfg:      mc,
			sel:      ai.NewSelector(seed+uint64(i), cfg.Search.CacheSize),
			log:      log.With(zap.Int("game", i)),
		}
		g.Go(func() error {
			res, err := m.play(ctx)
			if err != nil {
				return err
			}
			if res.Over {
				mu.Lock()
				tally[res.Winner]++
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("done",
		zap.Int("red_wins", tally[domain.Red]),
		zap.Int("white_wins", tally[domain.White]),
		zap.Int("draws", tally[domain.Empty]))
	return nil
}

type matchRun struct {
	index    int
	dir      string
	captures int
	all      bool
	cfg      app.MatchConfig
	sel      *ai.Selector
	log      *zap.Logger
}

func (m matchRun) play(ctx context.Context) (app.MatchResult, error) {
	game := domain.New()
	captured := 0
	capture := func(step int, b domain.Board) error {
		if m.all || captured > m.captures {
			return nil
		}
		captured++
		return app.WriteSnapshot(m.dir, app.NewSnapshot(step, b))
	}
	if err := capture(0, game.Board); err != nil {
		return app.MatchResult{}, err
	}
	res, err := app.RunMatch(ctx, game, m.sel, m.cfg, func(p app.Ply) error {
		if p.Passed {
			m.log.Debug("pass", zap.Stringer("player", p.Player))
			return nil
		}
		m.log.Debug("ply",
			zap.Int("ply", p.Index),
			zap.Stringer("player", p.Player),
			zap.Int("row", p.Move.Row),
			zap.Int("col", p.Move.Col),
			zap.Int("flipped", p.Flipped))
		return capture(game.TotalSteps(), p.Board)
	})
	if err != nil {
		return res, err
	}
	if m.captures > 0 && !m.all && captured <= m.captures {
		m.log.Warn("branch ended before the requested captures",
			zap.Int("requested", m.captures),
			zap.Int("steps", game.TotalSteps()))
	}
	if m.all {
		n, err := app.ExportSteps(m.dir, game)
		if err != nil {
			return res, err
		}
		m.log.Info("exported steps", zap.Int("count", n), zap.String("dir", m.dir))
	}
	m.log.Info("match finished",
		zap.Int("plies", res.Plies),
		zap.Int("passes", res.Passes),
		zap.Int("red", res.RedDiscs),
		zap.Int("white", res.WhiteDiscs),
		zap.Bool("over", res.Over),
		zap.Stringer("winner", res.Winner))
	return res, nil
}
