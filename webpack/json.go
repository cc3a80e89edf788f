package webpack

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes cfgs as an indented JSON array. Regular expressions are
// written as their literal source and plugins as {"plugin", "options"}
// objects, so a consumer has to revive both before handing the result to
// webpack. WriteModule produces a file webpack can load directly.
func WriteJSON(w io.Writer, cfgs []Config) error {
	if cfgs == nil {
		cfgs = []Config{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	if err := enc.Encode(cfgs); err != nil {
		return fmt.Errorf("encode webpack configs: %w", err)
	}
	return nil
}

func (e EntryPoint) MarshalJSON() ([]byte, error) {
	if len(e) == 1 {
		return json.Marshal(e[0])
	}
	return json.Marshal([]string(e))
}

// UnmarshalJSON accepts a single path or an array of paths.
func (e *EntryPoint) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*e = EntryPoint{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("entry point must be a string or an array of strings: %w", err)
	}
	*e = many
	return nil
}

func (x External) MarshalJSON() ([]byte, error) {
	if x.This != nil {
		return json.Marshal(map[string][]string{"this": x.This})
	}
	return json.Marshal(x.Global)
}

func (d Devtool) MarshalJSON() ([]byte, error) {
	if d == NoDevtool {
		return []byte("false"), nil
	}
	return json.Marshal(string(d))
}

func (p Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (u Use) MarshalJSON() ([]byte, error) {
	if len(u) == 1 && u[0].plain() {
		return json.Marshal(u[0].Name)
	}
	return json.Marshal([]Loader(u))
}

func (l Loader) MarshalJSON() ([]byte, error) {
	if l.Options == nil {
		return json.Marshal(l.Ref())
	}
	return json.Marshal(struct {
		Loader  string         `json:"loader"`
		Options map[string]any `json:"options"`
	}{l.Ref(), l.Options})
}

// MarshalJSON keeps an empty minimizer list, which webpack reads
// differently from an absent one.
func (o Optimization) MarshalJSON() ([]byte, error) {
	if o.Minimizer == nil {
		return json.Marshal(struct {
			Minimize bool `json:"minimize"`
		}{o.Minimize})
	}
	return json.Marshal(struct {
		Minimize  bool     `json:"minimize"`
		Minimizer []Plugin `json:"minimizer"`
	}{o.Minimize, o.Minimizer})
}

func (p Plugin) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Plugin  string         `json:"plugin"`
		Options map[string]any `json:"options,omitempty"`
	}{p.Name, p.Options})
}
