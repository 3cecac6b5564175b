package content

// Favorites are pinned to the left column of the start menu
var Favorites = []string{"browserApp", "emailApp"}

// MenuAliases maps start-menu ids to root keys
var MenuAliases = map[string]string{
	"my-computer":   "ourKennel",
	"my-documents":  "ourDogs",
	"my-pictures":   "photoGallery",
	"my-email":      "emailApp",
	"my-music":      "communityHub",
	"control-panel": "contactInfo",
}

// MenuItem is one start-menu entry
type MenuItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Icon     string `json:"icon"`
	Favorite bool   `json:"favorite"`
}

// Menu lists the start-menu entries: favorites first, then every other root
// in declaration order
func (t *Tree) Menu() []MenuItem {
	items := make([]MenuItem, 0, t.roots.Len())
	pinned := make(map[string]bool, len(Favorites))
	for _, key := range Favorites {
		if n, ok := t.roots.Get(key); ok {
			items = append(items, MenuItem{ID: key, Title: n.Title, Icon: n.Icon, Favorite: true})
			pinned[key] = true
		}
	}
	for _, key := range t.roots.Keys() {
		if pinned[key] {
			continue
		}
		n, _ := t.roots.Get(key)
		items = append(items, MenuItem{ID: key, Title: n.Title, Icon: n.Icon})
	}
	return items
}

// MenuPath returns the path a start-menu id opens. Root keys open
// themselves; aliases open their target.
func (t *Tree) MenuPath(item string) (string, bool) {
	if target, ok := MenuAliases[item]; ok {
		item = target
	}
	if _, ok := t.roots.Get(item); !ok {
		return "", false
	}
	return item, true
}
