package theme

import "github.com/kobzarvs/qcore/internal/logger"

type Listener interface {
	ThemeChanged(t *Theme)
}

type ListenerFunc func(t *Theme)

func (f ListenerFunc) ThemeChanged(t *Theme) { f(t) }

// Manager holds the active theme and tells listeners when it changes.
type Manager struct {
	current   *Theme
	listeners []Listener
	notifying bool
}

func NewManager(t *Theme) *Manager {
	return &Manager{current: t}
}

// Theme returns the active theme, which may be nil.
func (m *Manager) Theme() *Theme { return m.current }

func (m *Manager) AddListener(l Listener) {
	if m.notifying {
		logger.Panic("theme: AddListener called during notification")
	}
	m.listeners = append(m.listeners, l)
}

func (m *Manager) SetTheme(t *Theme) error {
	if t == nil {
		return ErrNoTheme
	}
	m.current = t
	logger.Debug("theme: switched", "name", t.Name())
	m.notifying = true
	defer func() { m.notifying = false }()
	for _, l := range m.listeners {
		l.ThemeChanged(t)
	}
	return nil
}
