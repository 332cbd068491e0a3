package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/leadgen/store"
)

// StoreChangedMsg asks the dashboard to repaint after a store write made
// outside Update.
type StoreChangedMsg struct{}

// WatchStore forwards store changes to send until stop is called. Changes
// that arrive while a message is pending collapse into it, so a setter never
// waits on the UI loop.
func WatchStore(st *store.Store, send func(tea.Msg)) (stop func()) {
	changed := make(chan struct{}, 1)
	done := make(chan struct{})

	unsubscribe := st.Subscribe(func(store.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-changed:
				send(StoreChangedMsg{})
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			close(done)
		})
	}
}
