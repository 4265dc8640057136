package exam

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Prev   key.Binding
	Next   key.Binding
	Choose key.Binding
	Jump   key.Binding
	Submit key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "odpověď")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↑↓", "odpověď")),
	Prev:   key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←→", "otázka")),
	Next:   key.NewBinding(key.WithKeys("right", "l", "n", "tab"), key.WithHelp("←→", "otázka")),
	Choose: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("Enter", "vybrat")),
	Jump:   key.NewBinding(key.WithKeys("g"), key.WithHelp("G", "přejít na")),
	Submit: key.NewBinding(key.WithKeys("s"), key.WithHelp("S", "odevzdat")),
	Quit:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "ukončit")),
}

// maxLetterAnswers is the number of answers reachable by letter keys.
const maxLetterAnswers = 6

// answerKeys maps a pressed key to an answer index. Letters stop at f so
// they never shadow the navigation keys.
var answerKeys = map[string]int{
	"a": 0, "b": 1, "c": 2, "d": 3, "e": 4, "f": 5,
	"1": 0, "2": 1, "3": 2, "4": 3, "5": 4, "6": 5, "7": 6, "8": 7, "9": 8,
}
