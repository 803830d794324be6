package decoration

import (
	"errors"
	"fmt"
	"slices"

	"epubdeco/common"
)

// ErrPatch is returned when changes cannot be applied to a list.
var ErrPatch = errors.New("inconsistent decoration changes")

// Patch replays every bucket against the source entries of its resource and
// returns resulting lists by href. Resources without entries are omitted.
func Patch(source []Decoration, changes Changes) (map[string][]Decoration, error) {
	res := ByHref(source)
	for _, href := range changes.Hrefs() {
		list, err := Replay(res[href], changes[href])
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", href, err)
		}
		if len(list) == 0 {
			delete(res, href)
			continue
		}
		res[href] = list
	}
	return res, nil
}

// Replay applies changes to a copy of list one by one. Indices of every
// change refer to the list produced by the changes before it.
func Replay(list []Decoration, changes []Change) ([]Decoration, error) {
	res := slices.Clone(list)

	at := func(ch Change) error {
		if ch.From < 0 || ch.From >= len(res) {
			return fmt.Errorf("%w: %s %q from %d out of range", ErrPatch, ch.Kind, ch.ID, ch.From)
		}
		if res[ch.From].ID != ch.ID {
			return fmt.Errorf("%w: %s %q at %d finds %q", ErrPatch, ch.Kind, ch.ID, ch.From, res[ch.From].ID)
		}
		return nil
	}
	insert := func(ch Change, d Decoration) error {
		if ch.To < 0 || ch.To > len(res) {
			return fmt.Errorf("%w: %s %q to %d out of range", ErrPatch, ch.Kind, ch.ID, ch.To)
		}
		res = slices.Insert(res, ch.To, d)
		return nil
	}

	for _, ch := range changes {
		switch ch.Kind {
		case common.ChangeKindAdded:
			if ch.Decoration == nil {
				return nil, fmt.Errorf("%w: added %q without decoration", ErrPatch, ch.ID)
			}
			if err := insert(ch, *ch.Decoration); err != nil {
				return nil, err
			}
		case common.ChangeKindRemoved:
			if err := at(ch); err != nil {
				return nil, err
			}
			res = slices.Delete(res, ch.From, ch.From+1)
		case common.ChangeKindUpdated, common.ChangeKindMoved:
			if err := at(ch); err != nil {
				return nil, err
			}
			d := res[ch.From]
			if ch.Kind == common.ChangeKindUpdated {
				if ch.Decoration == nil {
					return nil, fmt.Errorf("%w: updated %q without decoration", ErrPatch, ch.ID)
				}
				d = *ch.Decoration
			}
			res = slices.Delete(res, ch.From, ch.From+1)
			if err := insert(ch, d); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unknown change kind %q", ErrPatch, ch.Kind)
		}
	}
	return res, nil
}
