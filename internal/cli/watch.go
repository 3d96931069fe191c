package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netlayout/pkg/force"
	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
	"github.com/matzehuels/netlayout/pkg/pipeline"
	"github.com/matzehuels/netlayout/pkg/render"
)

const maxBarWidth = 60

// watchCommand creates the watch command, an interactive view of a layout
// session running on the terminal's event loop.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		src       sourceFlags
		lf        layoutFlags
		output    string
		framesDir string
		hold      bool
	)

	cmd := &cobra.Command{
		Use:   "watch [network.json]",
		Short: "Run a layout interactively",
		Long: `Run a layout session in the terminal and watch it converge.

Layout slices run on the terminal UI's event loop between key presses,
so the session can be paused, shaken or restarted while it runs.

Keys: space/p pause or resume, s shake a finished layout, r restart
from scratch, q quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, args, &src, &lf)
			if err != nil {
				return err
			}
			if framesDir != "" {
				frames, err := render.NewFrameDir(framesDir, opts.RenderOptions())
				if err != nil {
					return err
				}
				opts.Frames = frames
			}
			return c.runWatch(cmd.Context(), opts, output, hold)
		},
	}

	addSourceFlags(cmd, &src)
	addLayoutFlags(cmd, &lf)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the positioned network here on exit")
	cmd.Flags().StringVar(&framesDir, "frames", "", "write animation frames to this directory")
	cmd.Flags().BoolVar(&hold, "hold", false, "keep the view open after the layout completes")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, opts pipeline.Options, output string, hold bool) error {
	net, err := pipeline.Build(opts)
	if err != nil {
		return fmt.Errorf("load network: %w", err)
	}

	m := newWatchModel(ctx, net, opts, hold)
	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if err := m.err(); err != nil {
		return err
	}

	status := m.sess.Status()
	if !status.Drawable() {
		printWarning("Stopped in status %s", status)
		return nil
	}
	printSuccess("Layout complete")
	if output != "" {
		if err := net.WriteFile(output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printFile(output)
	}
	printStats(m.stats())
	return nil
}

// =============================================================================
// Scheduler
// =============================================================================

// sliceMsg carries a queued layout slice into the bubbletea event loop.
type sliceMsg func()

// teaScheduler holds session slices until the model hands them to the
// event loop as commands. Slices then run inside Update, interleaved with
// key presses.
type teaScheduler struct {
	tasks []func()
}

func (q *teaScheduler) Schedule(task func()) { q.tasks = append(q.tasks, task) }

// next returns a command delivering the oldest queued slice, or nil.
func (q *teaScheduler) next() tea.Cmd {
	if len(q.tasks) == 0 {
		return nil
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	return func() tea.Msg { return sliceMsg(task) }
}

// =============================================================================
// watchModel
// =============================================================================

// watchModel is the bubbletea model for the watch command. It is a pointer
// type because the session's listener updates it from inside Update.
type watchModel struct {
	ctx   context.Context
	net   *network.Network
	model *force.Model
	sess  *layout.Session
	sched *teaScheduler
	anim  *render.Animator
	bar   progress.Model
	hold  bool

	ratio   float64
	layouts int
	started time.Time
	elapsed time.Duration
}

func newWatchModel(ctx context.Context, net *network.Network, opts pipeline.Options, hold bool) *watchModel {
	opts.SetDefaults()
	m := &watchModel{
		ctx:   ctx,
		net:   net,
		model: force.New(net, opts.Force),
		sched: &teaScheduler{},
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		hold:  hold,
	}
	if opts.Frames != nil {
		m.anim = render.NewAnimator(net, opts.Animation, opts.Frames, opts.Logger)
	}
	m.sess = layout.NewSession(layout.Config{
		Name:      net.Name,
		Relaxer:   m.model,
		Scheduler: m.sched,
		Listener: layout.ListenerFuncs{
			Progress: m.onProgress,
			Complete: m.onComplete,
		},
		Options: opts.Layout,
		Initial: pipeline.InitialStatus(net),
		Logger:  opts.Logger,
	})
	if m.anim != nil {
		m.anim.Attach(m.sess)
	}
	return m
}

func (m *watchModel) onProgress(ratio float64) {
	m.ratio = ratio
	if m.anim != nil {
		m.anim.OnProgress(ratio)
	}
}

func (m *watchModel) onComplete() {
	m.ratio = 1
	m.layouts++
	m.elapsed = time.Since(m.started)
	if m.anim != nil {
		m.anim.OnComplete()
	}
}

// request starts a layout attempt if the session accepts one.
func (m *watchModel) request() {
	m.started = time.Now()
	m.elapsed = 0
	if m.sess.RequestLayout(m.ctx, m.net) {
		m.ratio = 0
	}
}

func (m *watchModel) togglePause() {
	if m.sess.Status() != layout.LayoutInProgress {
		return
	}
	if m.sess.Paused() {
		m.sess.Resume(m.ctx)
		return
	}
	m.sess.Stop()
}

func (m *watchModel) shake() {
	if !m.sess.Shake() {
		return
	}
	m.model.Shake(m.model.Params().LinkLength / 2)
	m.request()
}

func (m *watchModel) restart() {
	if m.sess.Invalidate() {
		m.request()
	}
}

// finished reports whether no further slices will run without user input.
func (m *watchModel) finished() bool {
	return m.sess.Status().Drawable()
}

func (m *watchModel) err() error {
	if m.anim != nil {
		if err := m.anim.Err(); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}
	return nil
}

func (m *watchModel) stats() layoutStats {
	s := layoutStats{
		Nodes:   m.net.NodeCount(),
		Links:   m.net.LinkCount(),
		Passes:  m.sess.Passes(),
		Elapsed: m.elapsed.Round(time.Millisecond),
	}
	if m.anim != nil {
		s.Frames = m.anim.Frames()
	}
	return s
}

func (m *watchModel) Init() tea.Cmd {
	m.request()
	if m.finished() && !m.hold {
		return tea.Quit
	}
	return m.sched.next()
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sliceMsg:
		msg()
		if m.finished() && !m.hold {
			return m, tea.Quit
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.sess.Stop()
			return m, tea.Quit
		case " ", "p":
			m.togglePause()
		case "s":
			m.shake()
		case "r":
			m.restart()
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-4, 10), maxBarWidth)
	}
	return m, m.sched.next()
}

func (m *watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("netlayout watch") + " " + StyleDim.Render(m.net.Name))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.ratio))
	b.WriteString("\n\n")

	status := m.sess.Status().String()
	if m.sess.Paused() {
		status += " (paused)"
	}
	elapsed := m.elapsed
	if m.sess.Status() == layout.LayoutInProgress {
		elapsed = time.Since(m.started)
	}
	rows := [][]string{
		{"Status", status},
		{"Nodes", fmt.Sprintf("%d", m.net.NodeCount())},
		{"Links", fmt.Sprintf("%d", m.net.LinkCount())},
		{"Passes", fmt.Sprintf("%d", m.sess.Passes())},
		{"Energy", fmt.Sprintf("%.4g", m.sess.LastPassEnergy())},
		{"Elapsed", elapsed.Round(time.Millisecond).String()},
		{"Layouts", fmt.Sprintf("%d", m.layouts)},
	}
	keyStyle := lipgloss.NewStyle().Foreground(colorGray)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return StyleValue
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("space pause/resume  s shake  r restart  q quit"))
	b.WriteString("\n")

	return b.String()
}
