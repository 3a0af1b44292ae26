package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"studiocheck/checklist"
	"studiocheck/log"
	"studiocheck/sfx"
	"studiocheck/shutdown"
)

type tickMsg time.Time

type rackModel struct {
	host          *checklist.Host
	engine        *sfx.Engine
	cursor        int
	needle        float64 // meter position in percent, eases toward the target
	frame         int
	width, height int
	deviceLine    string
	soundLine     string
}

const meterWidth = 21

var (
	chassisStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("236")).
			Padding(1, 3)
	earStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true).Italic(true)
	brandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("166")).Bold(true).Italic(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	buttonOff = lipgloss.NewStyle().
			Width(12).
			Align(lipgloss.Center).
			Padding(1, 0).
			Foreground(lipgloss.Color("242")).
			Background(lipgloss.Color("236")).
			Bold(true)
	buttonOn = buttonOff.
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("166"))
	wellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("235"))
	wellFocus = wellStyle.BorderForeground(lipgloss.Color("214"))

	lampOn  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	lampOff = lipgloss.NewStyle().Foreground(lipgloss.Color("22"))

	meterFace   = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("187"))
	meterNeedle = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Background(lipgloss.Color("187")).Bold(true)

	actionIdle  = lipgloss.NewStyle().Width(30).Align(lipgloss.Center).Padding(1, 0).Foreground(lipgloss.Color("235")).Background(lipgloss.Color("233")).Bold(true)
	actionReady = actionIdle.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("88"))
	authorized  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

func newRackModel(h *checklist.Host, e *sfx.Engine, device string) rackModel {
	name := "system default"
	if device != "" {
		name = device
	}
	m := rackModel{host: h, engine: e, deviceLine: "out: " + name}
	// A missing output only reaches the diagnostics log; the rack works
	// the same without sound.
	if e != nil && e.Disabled() {
		m.soundLine = "sound: muted"
	}
	return m
}

func tuiTick() tea.Cmd {
	return tea.Tick(60*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m rackModel) Init() tea.Cmd {
	return tuiTick()
}

func (m rackModel) toggle(i int) (rackModel, tea.Cmd) {
	m.cursor = i
	m.host.Toggle(checklist.Items()[i])
	return m, nil
}

func (m rackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "1", "2", "3", "4":
			return m.toggle(int(msg.String()[0] - '1'))
		case " ", "space", "enter":
			return m.toggle(m.cursor)
		case "left", "h":
			m.cursor = m.cursor &^ 1
		case "right", "l":
			m.cursor = m.cursor | 1
		case "up", "k":
			m.cursor = m.cursor % 2
		case "down", "j":
			m.cursor = m.cursor%2 + 2
		case "tab":
			m.cursor = (m.cursor + 1) % checklist.NumItems
		case "r":
			m.host.Reset()
		}

	case tickMsg:
		m.frame++
		target := float64(m.host.ReadyPercent())
		m.needle += (target - m.needle) * 0.25
		if math.Abs(target-m.needle) < 0.5 {
			m.needle = target
		}
		return m, tuiTick()
	}
	return m, nil
}

func (m rackModel) View() string {
	states := m.host.Snapshot()
	ready := m.host.AllReady()

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("STUDIO")+brandStyle.Render("CHECK")+dimStyle.Render(" v4.0"),
			faintStyle.Render("HARDWARE VERIFICATION CONSOLE"),
		),
		"    ",
		renderMeter(m.needle),
	)

	var buttons []string
	for i, it := range checklist.Items() {
		buttons = append(buttons, renderButton(it.String(), states[i], i == m.cursor))
	}
	grid := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, buttons[0], "  ", buttons[1]),
		lipgloss.JoinHorizontal(lipgloss.Top, buttons[2], "  ", buttons[3]),
	)

	action := actionIdle.Render("A C T I O N")
	if ready {
		action = actionReady.Render("A C T I O N")
		if m.frame/8%2 == 0 {
			action += "\n" + lipgloss.PlaceHorizontal(30, lipgloss.Center, authorized.Render("AUTHORIZED"))
		} else {
			action += "\n"
		}
	} else {
		action += "\n"
	}

	signal := lampOff.Render("▬▬")
	if m.host.ReadyPercent() > 0 {
		signal = lampOn.Render("▬▬")
	}
	footer := faintStyle.Render("PEAK ") + lipgloss.NewStyle().Foreground(lipgloss.Color("52")).Render("▬▬") +
		faintStyle.Render("  SIGNAL ") + signal +
		faintStyle.Render("      TEAC-REVOX CORP.")

	panel := chassisStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		header, "", grid, "", action, footer,
	))

	ears := make([]string, lipgloss.Height(panel))
	for i := range ears {
		ears[i] = " ┃ "
		if i == 2 || i == len(ears)-3 {
			ears[i] = " ● "
		}
	}
	ear := earStyle.Render(strings.Join(ears, "\n"))
	rack := lipgloss.JoinHorizontal(lipgloss.Top, ear, panel, ear)

	var status []string
	status = append(status, dimStyle.Render(m.deviceLine))
	if m.soundLine != "" {
		status = append(status, lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Render(m.soundLine))
	}
	status = append(status, faintStyle.Render("1-4 toggle · ←↑↓→ + space · r reset · q quit"))

	view := lipgloss.JoinVertical(lipgloss.Left, rack, strings.Join(status, "\n"))
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
	}
	return view
}

func renderButton(label string, on, focused bool) string {
	face := buttonOff.Render(label)
	lamp := lampOff.Render(strings.Repeat("▬", 12))
	if on {
		face = buttonOn.Render(label)
		lamp = lampOn.Render(strings.Repeat("▬", 12))
	}
	well := wellStyle
	if focused {
		well = wellFocus
	}
	return lipgloss.JoinVertical(lipgloss.Center, well.Render(face), lamp)
}

// renderMeter draws the READY % scale with the needle at pct.
func renderMeter(pct float64) string {
	pos := int(math.Round(pct / 100 * (meterWidth - 1)))
	pos = min(max(pos, 0), meterWidth-1)

	var b strings.Builder
	for i := 0; i < meterWidth; i++ {
		if i == pos {
			b.WriteString(meterNeedle.Render("▼"))
		} else {
			b.WriteString(meterFace.Render("·"))
		}
	}
	scale := meterFace.Render(fmt.Sprintf("%-5s%-5s%-5s%-3s%s", "0", "25", "50", "75", "100"))
	label := faintStyle.Render(fmt.Sprintf("READY %3.0f%%", pct))
	return lipgloss.JoinVertical(lipgloss.Center, label, b.String(), scale)
}

func runTUI(*cobra.Command, []string) error {
	device := cfg.Device
	if setup {
		name, err := pickDevice()
		if err != nil {
			return err
		}
		if name != "" {
			device = name
			engine = sfx.Configure(
				sfx.WithDevice(device),
				sfx.WithVolume(cfg.Volume),
				sfx.WithSampleRate(cfg.SampleRate),
			)
			if cfg.Mute {
				engine.Disable()
			}
			host = checklist.NewHost(engine)
		}
	}

	p := tea.NewProgram(newRackModel(host, engine, device), tea.WithAltScreen())

	sigs := make(chan os.Signal, 1)
	shutdown.Notify(sigs)
	go func() {
		<-sigs
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		log.Errorf("tui: %v", err)
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
