package dom

import "testing"

func TestRange_LiveUpdates(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(f *rangeFixture)
		start, end rangePoint
		mutate     func(f *rangeFixture) error
		wantStart  rangePoint
		wantEnd    rangePoint
	}{
		{
			name:  "splitText moves later points into the new node",
			start: rangePoint{"a/0", 1},
			end:   rangePoint{"a/0", 4},
			mutate: func(f *rangeFixture) error {
				_, err := f.node("a/0").AsCharacterData().SplitText(2)
				return err
			},
			wantStart: rangePoint{"a/0", 1},
			wantEnd:   rangePoint{"a/1", 2},
		},
		{
			name:  "splitText bumps a parent point after the split node",
			start: rangePoint{"a", 1},
			end:   rangePoint{"a", 1},
			mutate: func(f *rangeFixture) error {
				_, err := f.node("a/0").AsCharacterData().SplitText(3)
				return err
			},
			wantStart: rangePoint{"a", 2},
			wantEnd:   rangePoint{"a", 2},
		},
		{
			name:  "insertData before points shifts them",
			start: rangePoint{"a/0", 2},
			end:   rangePoint{"a/0", 4},
			mutate: func(f *rangeFixture) error {
				return f.node("a/0").AsCharacterData().InsertData(1, "XY")
			},
			wantStart: rangePoint{"a/0", 4},
			wantEnd:   rangePoint{"a/0", 6},
		},
		{
			name:  "insertData at a point leaves it",
			start: rangePoint{"a/0", 2},
			end:   rangePoint{"a/0", 2},
			mutate: func(f *rangeFixture) error {
				return f.node("a/0").AsCharacterData().InsertData(2, "XY")
			},
			wantStart: rangePoint{"a/0", 2},
			wantEnd:   rangePoint{"a/0", 2},
		},
		{
			name:  "deleteData pulls deleted points to the offset",
			start: rangePoint{"a/0", 2},
			end:   rangePoint{"a/0", 5},
			mutate: func(f *rangeFixture) error {
				return f.node("a/0").AsCharacterData().DeleteData(1, 2)
			},
			wantStart: rangePoint{"a/0", 1},
			wantEnd:   rangePoint{"a/0", 3},
		},
		{
			name:  "replaceData shifts later points by the length change",
			start: rangePoint{"a/0", 4},
			end:   rangePoint{"a/0", 5},
			mutate: func(f *rangeFixture) error {
				return f.node("a/0").AsCharacterData().ReplaceData(1, 2, "XYZ")
			},
			wantStart: rangePoint{"a/0", 5},
			wantEnd:   rangePoint{"a/0", 6},
		},
		{
			name:  "setting data collapses points to zero",
			start: rangePoint{"a/0", 1},
			end:   rangePoint{"b/0", 3},
			mutate: func(f *rangeFixture) error {
				f.node("a/0").AsCharacterData().SetData("bye")
				return nil
			},
			wantStart: rangePoint{"a/0", 0},
			wantEnd:   rangePoint{"b/0", 3},
		},
		{
			name:  "removing a container moves points to its parent",
			start: rangePoint{"a/0", 1},
			end:   rangePoint{"b/0", 2},
			mutate: func(f *rangeFixture) error {
				_, err := f.node("body").RemoveChild(f.node("a"))
				return err
			},
			wantStart: rangePoint{"body", 0},
			wantEnd:   rangePoint{"b/0", 2},
		},
		{
			name:  "removing an earlier sibling decrements parent offsets",
			start: rangePoint{"body", 1},
			end:   rangePoint{"body", 2},
			mutate: func(f *rangeFixture) error {
				f.node("a").Remove()
				return nil
			},
			wantStart: rangePoint{"body", 0},
			wantEnd:   rangePoint{"body", 1},
		},
		{
			name:  "inserting before points shifts them",
			start: rangePoint{"body", 1},
			end:   rangePoint{"body", 2},
			mutate: func(f *rangeFixture) error {
				_, err := f.node("body").InsertBefore(f.doc.CreateElement("hr").AsNode(), f.node("a"))
				return err
			},
			wantStart: rangePoint{"body", 2},
			wantEnd:   rangePoint{"body", 3},
		},
		{
			name:  "appending at a point leaves it",
			start: rangePoint{"body", 2},
			end:   rangePoint{"body", 2},
			mutate: func(f *rangeFixture) error {
				_, err := f.node("body").AppendChild(f.doc.CreateElement("hr").AsNode())
				return err
			},
			wantStart: rangePoint{"body", 2},
			wantEnd:   rangePoint{"body", 2},
		},
		{
			name: "normalize moves points into the surviving text node",
			setup: func(f *rangeFixture) {
				f.node("a").AppendChild(f.doc.CreateTextNode("there"))
			},
			start: rangePoint{"a", 1},
			end:   rangePoint{"a/1", 2},
			mutate: func(f *rangeFixture) error {
				f.node("a").Normalize()
				return nil
			},
			wantStart: rangePoint{"a/0", 5},
			wantEnd:   rangePoint{"a/0", 7},
		},
		{
			name: "normalize decrements parent points after merged nodes",
			setup: func(f *rangeFixture) {
				f.node("a").AppendChild(f.doc.CreateTextNode("there"))
			},
			start: rangePoint{"a", 2},
			end:   rangePoint{"a", 2},
			mutate: func(f *rangeFixture) error {
				f.node("a").Normalize()
				return nil
			},
			wantStart: rangePoint{"a", 1},
			wantEnd:   rangePoint{"a", 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRangeFixture(t, twoParagraphs)
			if tt.setup != nil {
				tt.setup(f)
			}
			r := f.rangeOf(tt.start, tt.end)
			if err := tt.mutate(f); err != nil {
				t.Fatalf("mutation failed: %v", err)
			}
			f.expectRange(r, tt.wantStart, tt.wantEnd)
		})
	}
}

func TestRange_LiveUpdatesIgnoreOtherDocuments(t *testing.T) {
	f := newRangeFixture(t, twoParagraphs)
	other := newRangeFixture(t, twoParagraphs)
	r := f.rangeOf(rangePoint{"a/0", 1}, rangePoint{"a/0", 4})

	if err := other.node("a/0").AsCharacterData().DeleteData(0, 5); err != nil {
		t.Fatal(err)
	}
	other.node("b").Remove()
	f.expectRange(r, rangePoint{"a/0", 1}, rangePoint{"a/0", 4})
}
