package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hubmap/pkg/config"
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/network"
	"github.com/matzehuels/hubmap/pkg/surface"
	"github.com/matzehuels/hubmap/pkg/surface/svgmap"
	"github.com/matzehuels/hubmap/pkg/view"
)

var (
	previewKeyStyle   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	previewPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

type previewOpts struct {
	mapFlags
	output string
}

func (c *CLI) previewCommand() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview [places.toml]",
		Short: "Interactively mount, remount and unmount the map",
		Long: `Preview keeps a map mounted in memory and lets you drive its lifecycle from
the keyboard: mount, unmount, remount with a fresh random network, switch
between two containers and tune the secondary route probability. Press s to
write the current map as SVG.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.apply(cmd.Flags(), &c.Config); err != nil {
				return err
			}
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runPreview(cmd.Context(), file, opts.output)
		},
	}

	opts.register(cmd.Flags(), config.Default())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "preview.svg", "file written by the s key")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, file, output string) error {
	store, err := c.openCache(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	reg, err := c.loadRegistry(ctx, file, store)
	if err != nil {
		return err
	}
	layers, err := c.tileLayers(ctx, store, c.Config.Tiles.Layers)
	if err != nil {
		return err
	}

	// Log lines would tear the TUI; keep them out of the terminal.
	m := newPreviewModel(c.Config, reg, layers, log.New(io.Discard), output)
	defer func() { _ = m.view.Unmount() }()
	m.mount()

	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if pm, ok := final.(*previewModel); ok && pm.saved > 0 {
		printSuccess("Saved %d snapshot(s)", pm.saved)
		printFile(output)
	}
	return nil
}

// previewModel is the bubbletea model driving one NetworkMap.
type previewModel struct {
	cfg        config.Config
	reg        *geo.Registry
	layers     []surface.TileLayer
	logger     *log.Logger
	backend    *svgmap.Backend
	view       *view.NetworkMap
	containers []*surface.Container
	active     int
	output     string
	message    string
	saved      int
	mounts     int
}

func newPreviewModel(cfg config.Config, reg *geo.Registry, layers []surface.TileLayer, logger *log.Logger, output string) *previewModel {
	proj, _ := cfg.Projection()
	bg, _ := geo.ParseColor(cfg.Render.Background)
	m := &previewModel{
		cfg:     cfg,
		reg:     reg,
		layers:  layers,
		logger:  logger,
		backend: svgmap.New(svgmap.WithProjection(proj), svgmap.WithBackground(bg), svgmap.WithTitle(appName)),
		containers: []*surface.Container{
			surface.NewContainer("main", cfg.Render.Width, cfg.Render.Height),
			surface.NewContainer("sidebar", cfg.Render.Width/2, cfg.Render.Height/2),
		},
		output: output,
	}
	m.view = m.newView()
	return m
}

// newView builds a view from the current settings. Secondary routes are
// drawn from a fresh seed on every mount.
func (m *previewModel) newView() *view.NetworkMap {
	return view.New(m.reg, m.backend,
		view.WithNetworkOptions(m.cfg.NetworkOptions()),
		view.WithRenderOptions(m.cfg.RenderOptions()),
		view.WithTileLayers(m.layers...),
		view.WithLogger(m.logger),
	)
}

func (m *previewModel) container() *surface.Container { return m.containers[m.active] }

func (m *previewModel) mount() {
	if h := m.view.Handle(); m.view.Status() == view.Ready && h != nil && h.Container().ID == m.container().ID {
		m.message = "already mounted"
		return
	}
	if err := m.view.Mount(m.container()); err != nil {
		m.message = err.Error()
		return
	}
	m.mounts++
	m.message = fmt.Sprintf("mounted on %s", m.container().ID)
}

func (m *previewModel) unmount() {
	if err := m.view.Unmount(); err != nil {
		m.message = err.Error()
		return
	}
	m.message = "unmounted"
}

func (m *previewModel) remount() {
	m.unmount()
	m.mount()
}

// setProbability rebuilds the view with a new secondary probability.
func (m *previewModel) setProbability(p float64) {
	p = math.Round(max(0, min(p, 1))*10) / 10
	if p == m.cfg.Render.Probability {
		return
	}
	wasReady := m.view.Status() == view.Ready
	m.unmount()
	m.cfg.Render.Probability = p
	m.view = m.newView()
	if wasReady {
		m.mount()
	}
	m.message = fmt.Sprintf("probability %.1f", p)
}

func (m *previewModel) save() {
	data, err := m.view.Snapshot()
	if err != nil {
		m.message = err.Error()
		return
	}
	if err := os.WriteFile(m.output, data, 0644); err != nil {
		m.message = err.Error()
		return
	}
	m.saved++
	m.message = "saved " + m.output
}

func (m *previewModel) Init() tea.Cmd { return nil }

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "m":
		m.mount()
	case "u":
		m.unmount()
	case "r", "enter":
		m.remount()
	case "tab":
		m.active = (m.active + 1) % len(m.containers)
		if m.view.Status() == view.Ready {
			m.mount()
		} else {
			m.message = "selected " + m.container().ID
		}
	case "+", "=":
		m.setProbability(m.cfg.Render.Probability + 0.1)
	case "-":
		m.setProbability(m.cfg.Render.Probability - 0.1)
	case "s":
		m.save()
	}
	return m, nil
}

func (m *previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("hubmap preview"))
	b.WriteString("\n\n")

	status := m.view.Status()
	statusStyle := StyleDim
	switch status {
	case view.Ready:
		statusStyle = StyleSuccess
	case view.Failed:
		statusStyle = StyleError
	case view.Loading:
		statusStyle = StyleWarning
	}

	var panel strings.Builder
	fmt.Fprintf(&panel, "%-12s %s\n", "status", statusStyle.Render(status.String()))
	fmt.Fprintf(&panel, "%-12s %s (%dx%d)\n", "container", m.container().ID, m.container().Width, m.container().Height)
	fmt.Fprintf(&panel, "%-12s %.1f\n", "probability", m.cfg.Render.Probability)
	if status == view.Ready {
		s := network.Stats(m.view.Edges())
		fmt.Fprintf(&panel, "%-12s %d\n", "seed", m.view.Seed())
		fmt.Fprintf(&panel, "%-12s %d primary, %d secondary\n", "routes", s.Primary, s.Secondary)
		fmt.Fprintf(&panel, "%-12s %d\n", "elements", m.view.Disposal().Len())
	}
	fmt.Fprintf(&panel, "%-12s %d\n", "surfaces", m.backend.Live())
	fmt.Fprintf(&panel, "%-12s %d", "mounts", m.mounts)
	if p := m.view.Placeholder(); p != "" {
		fmt.Fprintf(&panel, "\n%s", StyleWarning.Render(p))
	}
	b.WriteString(previewPanelStyle.Render(panel.String()))
	b.WriteString("\n")

	if m.message != "" {
		b.WriteString(StyleDim.Render(iconInfo + " " + m.message))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	keys := []string{"m mount", "u unmount", "r remount", "tab container", "+/- probability", "s save", "q quit"}
	for i, k := range keys {
		name, desc, _ := strings.Cut(k, " ")
		if i > 0 {
			b.WriteString(StyleDim.Render("  "))
		}
		b.WriteString(previewKeyStyle.Render(name) + " " + StyleDim.Render(desc))
	}
	return b.String()
}
