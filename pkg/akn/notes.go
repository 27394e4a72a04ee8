package akn

import (
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"
)

// Note is one editorial note attached to a structural element.
type Note struct {
	EID   string `yaml:"eId"`
	Class string `yaml:"class"`
	Note  string `yaml:"note"`
}

// ActNotes groups the notes belonging to one act, keyed by its work URI.
type ActNotes struct {
	ActURI string `yaml:"ActUri"`
	Notes  []Note `yaml:"Notes"`
}

// LoadNotes reads an editorial-notes YAML file.
func LoadNotes(path string) ([]ActNotes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading notes file: %w", err)
	}
	var notes []ActNotes
	if err := yaml.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("parsing notes file: %w", err)
	}
	return notes, nil
}

// AttachNotes adds editorial notes for this document to the meta block and
// places a noteRef marker inside the num of each referenced element. Notes
// belonging to other acts (by work URI) are ignored.
func AttachNotes(root *etree.Element, notes []ActNotes) {
	if len(notes) == 0 {
		return
	}
	thisEl := root.FindElement("./act/meta/identification/FRBRWork/FRBRthis")
	if thisEl == nil {
		return
	}
	this := thisEl.SelectAttrValue("value", "")

	notesEl := etree.NewElement("notes")
	notesEl.CreateAttr("source", "#source")
	attached := 0

	for _, an := range notes {
		if an.ActURI != this {
			continue
		}
		for _, note := range an.Notes {
			eid := "note-" + note.EID
			n := notesEl.CreateElement("note")
			n.CreateAttr("class", note.Class)
			n.CreateAttr("eId", eid)
			n.CreateElement("p").SetText(note.Note)

			if num := findNumByEID(root, note.EID); num != nil {
				ref := num.CreateElement("noteRef")
				ref.CreateAttr("href", "#"+eid)
				ref.CreateAttr("marker", "*")
			}
			attached++
		}
	}
	if attached == 0 {
		return
	}
	if meta := root.FindElement("./act/meta"); meta != nil {
		meta.AddChild(notesEl)
	}
}

// findNumByEID locates the num child of the first body element whose eId
// contains the given fragment.
func findNumByEID(root *etree.Element, eid string) *etree.Element {
	body := root.FindElement("./act/body")
	if body == nil {
		return nil
	}
	var found *etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if found != nil {
			return
		}
		if strings.Contains(el.SelectAttrValue("eId", ""), eid) {
			if num := el.SelectElement("num"); num != nil {
				found = num
				return
			}
		}
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	walk(body)
	return found
}
