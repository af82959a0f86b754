package anchor

import (
	"encoding/json"
	"fmt"
)

// MenuState is the visible menu level.
type MenuState int

const (
	MenuNone MenuState = iota
	MenuLevel1
	MenuLevel2Crop
	MenuLevel2Pinp
)

var menuStateNames = map[MenuState]string{
	MenuNone:       "none",
	MenuLevel1:     "level1",
	MenuLevel2Crop: "level2Crop",
	MenuLevel2Pinp: "level2Pinp",
}

func (s MenuState) String() string {
	if name, ok := menuStateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s MenuState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *MenuState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for state, n := range menuStateNames {
		if n == name {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown menu state %q", name)
}

// MenuItems returns the buttons shown in state s, top to bottom.
func MenuItems(s MenuState) []ID {
	switch s {
	case MenuLevel1:
		return []ID{Crop, Pinp, FlipHorizontal, FlipVertical}
	case MenuLevel2Crop:
		return []ID{Back, Done}
	case MenuLevel2Pinp:
		return []ID{Back, PinpLeftTop, PinpRightTop, PinpLeftBottom, PinpRightBottom}
	}
	return nil
}
