package util

import (
	"testing"
)

func TestStripSegmentName(t *testing.T) {
	s := StripSegmentName("_0.fnm")
	if s != ".fnm" {
		t.Errorf("Expected '.fnm' but was '%v'", s)
	}

	s = StripSegmentName("_0_Lucene41_0.doc")
	if s != "_Lucene41_0.doc" {
		t.Errorf("Expected '_Lucene41_0.doc', but was '%v'", s)
	}
}

func TestSegmentFileName(t *testing.T) {
	if s := SegmentFileName("_1", "", "fdt"); s != "_1.fdt" {
		t.Errorf("Expected '_1.fdt' but was '%v'", s)
	}
	if s := SegmentFileName("_1", "merged", "tvx"); s != "_1_merged.tvx" {
		t.Errorf("Expected '_1_merged.tvx' but was '%v'", s)
	}
	if s := SegmentFileName("_1", "", ""); s != "_1" {
		t.Errorf("Expected '_1' but was '%v'", s)
	}
	if s := ParseSegmentName("_1_merged.tvx"); s != "_1" {
		t.Errorf("Expected '_1' but was '%v'", s)
	}
	if s := FileExtension("_1_merged.tvx"); s != "tvx" {
		t.Errorf("Expected 'tvx' but was '%v'", s)
	}
}
