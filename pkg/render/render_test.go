package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/ha1tch/treeflow/pkg/diagram"
	"github.com/ha1tch/treeflow/pkg/geom"
	"github.com/ha1tch/treeflow/pkg/snapshot"
)

var nodeSize = geom.Size{W: 120, H: 30}

func sampleSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		Scale: 1,
		Nodes: []snapshot.NodeRecord{
			{ID: "root", X: 100, Y: 0, TargetNodes: []string{"left", "right"}},
			{ID: "left", X: 0, Y: 100},
			{ID: "right", X: 200, Y: 100, TargetNodes: []string{"ghost"}},
		},
	}
}

func TestSceneTracksEditor(t *testing.T) {
	sc := NewScene()
	opts := diagram.DefaultOptions()
	opts.Surface = sc
	ed := diagram.New(opts)

	a := ed.AddNodeFromData(snapshot.NodeRecord{ID: "a"})
	ed.AddNodeFromData(snapshot.NodeRecord{ID: "b", Y: 100})
	a.AddConnect("b")
	a.MoveBy(10, 0)

	nodes := sc.Nodes()
	if len(nodes) != 2 || nodes[0].ID != "a" || nodes[1].ID != "b" {
		t.Fatalf("Expected nodes [a b], got %v", nodes)
	}
	if nodes[0].Bounds.X != 10 {
		t.Errorf("Expected a at x=10, got %v", nodes[0].Bounds.X)
	}
	edges := sc.Edges()
	if len(edges) != 1 || edges[0].Key != (diagram.EdgeKey{Source: "a", Target: "b"}) {
		t.Fatalf("Expected one edge a->b, got %v", edges)
	}
	if edges[0].Path.P0 != (geom.Point{X: 70, Y: 30}) {
		t.Errorf("Expected edge start (70,30), got %v", edges[0].Path.P0)
	}

	ed.SelectAll()
	if n, _ := sc.Node("b"); !n.State.Selected {
		t.Error("Expected b selected in scene")
	}

	a.Destroy()
	if len(sc.Nodes()) != 1 || len(sc.Edges()) != 0 {
		t.Errorf("Expected one node and no edges after destroy, got %d and %d", len(sc.Nodes()), len(sc.Edges()))
	}

	ed.SetScale(1.5)
	if sc.Scale() != 1.5 {
		t.Errorf("Expected scale 1.5, got %v", sc.Scale())
	}
}

func TestSceneBounds(t *testing.T) {
	sc := SceneFromSnapshot(sampleSnapshot(), nodeSize)
	got := sc.Bounds()
	want := geom.Rect{X: 0, Y: 0, W: 320, H: 130}
	if got != want {
		t.Errorf("Expected bounds %v, got %v", want, got)
	}
	if len(sc.Edges()) != 2 {
		t.Errorf("Expected 2 edges (ghost skipped), got %d", len(sc.Edges()))
	}

	if (NewScene().Bounds() != geom.Rect{}) {
		t.Error("Expected zero bounds for empty scene")
	}
}

func TestSceneTransients(t *testing.T) {
	sc := NewScene()
	c := geom.Cubic{P3: geom.Point{X: 5, Y: 5}}
	sc.SetPreview(&c)
	c.P3.X = 99
	if sc.Preview().P3.X != 5 {
		t.Error("Expected scene to keep its own copy of the preview")
	}
	sc.SetPreview(nil)
	if sc.Preview() != nil {
		t.Error("Expected preview cleared")
	}
	at := geom.Point{X: 1, Y: 2}
	sc.SetPlaceholder(&at)
	if *sc.Placeholder() != at {
		t.Errorf("Expected placeholder %v, got %v", at, *sc.Placeholder())
	}
}

func TestSVG(t *testing.T) {
	sc := SceneFromSnapshot(sampleSnapshot(), nodeSize)
	var buf bytes.Buffer
	if err := SVG(&buf, sc, DefaultSVGOptions()); err != nil {
		t.Fatalf("SVG failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<svg",
		`width="360"`,
		"scale(1)",
		`class="editor-lines"`,
		`class="editor-nodes"`,
		`id="root->left"`,
		"M 160 30 C 160 100, 60 30, 60 100",
		">root</text>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected SVG to contain %q", want)
		}
	}
	if got := strings.Count(out, `class="editor-node"`); got != 3 {
		t.Errorf("Expected 3 node groups, got %d", got)
	}
	if strings.Contains(out, "stroke-dasharray:6,4") {
		t.Error("Expected no preview without a connect in progress")
	}
}

func TestSVGPreviewAndScale(t *testing.T) {
	sc := SceneFromSnapshot(sampleSnapshot(), nodeSize)
	sc.SetTransform(2)
	sc.SetPreview(&geom.Cubic{P0: geom.Point{X: 160, Y: 30}, P3: geom.Point{X: 300, Y: 200}})

	var buf bytes.Buffer
	if err := SVG(&buf, sc, SVGOptions{Padding: 0}); err != nil {
		t.Fatalf("SVG failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "scale(2)") {
		t.Error("Expected scale(2) transform")
	}
	if !strings.Contains(out, "stroke-dasharray:6,4") {
		t.Error("Expected dashed preview")
	}
	if !strings.Contains(out, `height="400"`) {
		t.Error("Expected height to include the preview extent at scale 2")
	}
}

func TestPNG(t *testing.T) {
	sc := SceneFromSnapshot(sampleSnapshot(), nodeSize)
	var buf bytes.Buffer
	if err := PNG(&buf, sc, DefaultPNGOptions()); err != nil {
		t.Fatalf("PNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 360 || b.Dy() != 170 {
		t.Errorf("Expected 360x170, got %dx%d", b.Dx(), b.Dy())
	}

	// The padding corner stays white and the node border is dark.
	if r, g, bl, _ := img.At(1, 1).RGBA(); r>>8 != 255 || g>>8 != 255 || bl>>8 != 255 {
		t.Errorf("Expected white corner, got %v", img.At(1, 1))
	}
	darkest := uint32(255)
	for x := 117; x <= 123; x++ {
		if r, _, _, _ := img.At(x, 35).RGBA(); r>>8 < darkest {
			darkest = r >> 8
		}
	}
	if darkest > 160 {
		t.Errorf("Expected dark border near root's left edge, darkest red was %d", darkest)
	}
}

func TestPNGFixedSize(t *testing.T) {
	sc := SceneFromSnapshot(sampleSnapshot(), nodeSize)
	var buf bytes.Buffer
	opts := DefaultPNGOptions()
	opts.Width, opts.Height = 200, 100
	if err := PNG(&buf, sc, opts); err != nil {
		t.Fatalf("PNG failed: %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if cfg.Width != 200 || cfg.Height != 100 {
		t.Errorf("Expected 200x100, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestPNGBorderWidthIgnoresFit(t *testing.T) {
	sc := SceneFromSnapshot(sampleSnapshot(), nodeSize)
	var buf bytes.Buffer
	opts := DefaultPNGOptions()
	// Fit factor 2.125, root's left edge lands at x=232.5
	opts.Width, opts.Height = 720, 340
	if err := PNG(&buf, sc, opts); err != nil {
		t.Fatalf("PNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	darkest := uint32(255)
	for x := 229; x <= 236; x++ {
		if r, _, _, _ := img.At(x, 52).RGBA(); r>>8 < darkest {
			darkest = r >> 8
		}
	}
	if darkest > 120 {
		t.Errorf("Expected a solid border at fit 2.125, darkest red was %d", darkest)
	}
}

func TestDOT(t *testing.T) {
	out := DOT(sampleSnapshot(), `my "tree"`)
	for _, want := range []string{
		"digraph treeflow {",
		`label="my \"tree\""`,
		`"root" [label="root", pos="100,0!"]`,
		`"left" [label="left", pos="0,-100!"]`,
		`"root" -> "left";`,
		`"root" -> "right";`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected DOT to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "ghost") {
		t.Error("Expected unknown child to be dropped")
	}
	if strings.Index(out, `"root" -> "left"`) > strings.Index(out, `"root" -> "right"`) {
		t.Error("Expected edges in child order")
	}
}

func TestLabel(t *testing.T) {
	if Label("abc") != "abc" {
		t.Error("Expected short ids unchanged")
	}
	if got := Label("0f8fad5b-d9cb-469f-a165-70867728950e"); got != "0f8fad5b" {
		t.Errorf("Expected 0f8fad5b, got %s", got)
	}
}
