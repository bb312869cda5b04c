package tilegrid

import (
	"image"
	"testing"
)

func TestCellKey(t *testing.T) {
	tests := []struct {
		cell Cell
		key  string
	}{
		{Cell{0, 0}, "0|0"},
		{Cell{3, 7}, "7|3"},
		{Cell{-4, 2}, "2|-4"},
		{Cell{5, -9}, "-9|5"},
	}
	for _, tt := range tests {
		if got := tt.cell.Key(); got != tt.key {
			t.Errorf("%v.Key() = %q, want %q", tt.cell, got, tt.key)
		}
		got, err := ParseCellKey(tt.key)
		if err != nil {
			t.Errorf("ParseCellKey(%q): %v", tt.key, err)
			continue
		}
		if got != tt.cell {
			t.Errorf("ParseCellKey(%q) = %v, want %v", tt.key, got, tt.cell)
		}
	}
}

func TestParseCellKeyMalformed(t *testing.T) {
	for _, key := range []string{"", "3", "a|1", "1|b", "1|2|3"} {
		if _, err := ParseCellKey(key); err == nil {
			t.Errorf("ParseCellKey(%q) succeeded", key)
		}
	}
}

func TestDepthString(t *testing.T) {
	for _, d := range Depths {
		got, err := ParseDepth(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDepth(%q) = %v, %v; want %v", d.String(), got, err, d)
		}
	}
	if _, err := ParseDepth("3"); err == nil {
		t.Error("ParseDepth(3) succeeded")
	}
	if DepthAll.Valid() {
		t.Error("DepthAll is a valid slot")
	}
}

func TestCellIn(t *testing.T) {
	size := image.Pt(4, 3)
	tests := []struct {
		c    Cell
		want bool
	}{
		{Cell{0, 0}, true},
		{Cell{3, 2}, true},
		{Cell{4, 2}, false},
		{Cell{-1, 0}, false},
	}
	for _, tt := range tests {
		if got := tt.c.In(size); got != tt.want {
			t.Errorf("%v.In(4x3) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestPointerEventHas(t *testing.T) {
	ev := PointerEvent{Modifiers: ModShift | ModCtrl}
	if !ev.Has(ModShift) || !ev.Has(ModShift|ModCtrl) {
		t.Error("Has missed a held modifier")
	}
	if ev.Has(ModAlt) || ev.Has(ModShift|ModMeta) {
		t.Error("Has reported a modifier that is not held")
	}
}

func TestEventTypeString(t *testing.T) {
	if got := EventPointerLeave.String(); got != "leave" {
		t.Errorf("String = %q, want leave", got)
	}
	if got := EventType(99).String(); got != "unknown" {
		t.Errorf("String = %q, want unknown", got)
	}
}
