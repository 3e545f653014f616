package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
)

const ifElseDoc = `[
	{"$kind": "Microsoft.SendActivity", "activity": "Hello"},
	{
		"$kind": "Microsoft.IfCondition",
		"condition": "x > 1",
		"actions": [{"$kind": "Microsoft.SendActivity", "activity": "yes"}],
		"elseActions": [
			{"$kind": "Microsoft.SendActivity", "activity": "no"},
			{"$kind": "Microsoft.EndDialog"}
		]
	}
]`

func buildScene(t *testing.T, doc string) *flow.Scene {
	t.Helper()
	d, err := dialog.Parse([]byte(doc), dialog.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return flow.Build(d, flow.DefaultOptions())
}

func TestFlowchartRoundTrip(t *testing.T) {
	scene := buildScene(t, ifElseDoc)

	data, err := MarshalFlowchart(FromScene(scene))
	if err != nil {
		t.Fatalf("MarshalFlowchart() error = %v", err)
	}
	fc, err := UnmarshalFlowchart(data)
	if err != nil {
		t.Fatalf("UnmarshalFlowchart() error = %v", err)
	}
	got, err := ToScene(fc)
	if err != nil {
		t.Fatalf("ToScene() error = %v", err)
	}

	if got.Width != scene.Width || got.Height != scene.Height || got.Boundary != scene.Boundary {
		t.Errorf("size = %gx%g %v, want %gx%g %v", got.Width, got.Height, got.Boundary, scene.Width, scene.Height, scene.Boundary)
	}
	if !reflect.DeepEqual(got.Nodes, scene.Nodes) {
		t.Errorf("nodes differ after round trip")
	}
	if !reflect.DeepEqual(got.Edges, scene.Edges) {
		t.Errorf("edges differ after round trip")
	}
	if !reflect.DeepEqual(got.Elements, scene.Elements) {
		t.Errorf("elements differ after round trip")
	}
	if !reflect.DeepEqual(fc.Selectable, scene.SelectableIDs()) {
		t.Errorf("selectable = %v, want %v", fc.Selectable, scene.SelectableIDs())
	}
}

func TestFromSceneDeterministic(t *testing.T) {
	a, _ := MarshalFlowchart(FromScene(buildScene(t, ifElseDoc)))
	b, _ := MarshalFlowchart(FromScene(buildScene(t, ifElseDoc)))
	if !bytes.Equal(a, b) {
		t.Error("equal documents serialized differently")
	}
	if bytes.Contains(a, []byte(`"stats"`)) {
		t.Error("stats included without WithStats")
	}
	withStats, _ := MarshalFlowchart(FromScene(buildScene(t, ifElseDoc), WithStats()))
	if !bytes.Contains(withStats, []byte(`"stats"`)) {
		t.Error("WithStats() did not include stats")
	}
}

func TestFromSceneEmptyDocument(t *testing.T) {
	data, err := MarshalFlowchart(FromScene(buildScene(t, `[]`)))
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"edges": []`, `"selectable": []`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("output lacks %s:\n%s", field, data)
		}
	}
}

func TestToSceneRejects(t *testing.T) {
	valid := FromScene(buildScene(t, ifElseDoc))
	tests := []struct {
		name   string
		mutate func(*Flowchart)
		want   string
	}{
		{"viz type", func(fc *Flowchart) { fc.VizType = VizTypeTree }, "viz_type"},
		{"version", func(fc *Flowchart) { fc.Version = 99 }, "version"},
		{"negative size", func(fc *Flowchart) { fc.Width = -1 }, "invalid size"},
		{"boundary", func(fc *Flowchart) { fc.Boundary.AxisX = fc.Boundary.Width + 1 }, "invalid boundary"},
		{"node id", func(fc *Flowchart) { fc.Nodes[0].ID = "" }, "empty id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := valid
			fc.Nodes = append([]flow.Node(nil), valid.Nodes...)
			tt.mutate(&fc)
			_, err := ToScene(fc)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ToScene() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestTreeOf(t *testing.T) {
	g := TreeOf(buildScene(t, ifElseDoc))
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(g.Nodes) != 10 || len(g.Edges) != 9 {
		t.Fatalf("tree = %d nodes %d edges, want 10 and 9", len(g.Nodes), len(g.Edges))
	}
	if g.Nodes[0].ID != RootNodeID || !g.Nodes[0].IsContainer() {
		t.Errorf("first node = %+v, want root container", g.Nodes[0])
	}

	parent := map[string]string{}
	for _, e := range g.Edges {
		parent[e.To] = e.From
	}
	tests := map[string]string{
		"actions[0]":                RootNodeID,
		"actions[1]":                RootNodeID,
		"actions[1].condition":      "actions[1]",
		"actions[1].elseActions":    "actions[1]",
		"actions[1].elseActions[1]": "actions[1].elseActions",
		"actions[1].actions[0]":     "actions[1].actions",
	}
	for child, want := range tests {
		if got := parent[child]; got != want {
			t.Errorf("parent(%s) = %q, want %q", child, got, want)
		}
	}
}

func TestGraphValidate(t *testing.T) {
	tests := []struct {
		name    string
		g       Graph
		wantErr bool
	}{
		{"empty", Graph{}, false},
		{"ok", Graph{Nodes: []Node{{ID: "a"}, {ID: "b"}}, Edges: []Edge{{From: "a", To: "b"}}}, false},
		{"duplicate", Graph{Nodes: []Node{{ID: "a"}, {ID: "a"}}}, true},
		{"dangling", Graph{Nodes: []Node{{ID: "a"}}, Edges: []Edge{{From: "a", To: "b"}}}, true},
		{"empty id", Graph{Nodes: []Node{{}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.g.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFlowchartFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	fc := FromScene(buildScene(t, ifElseDoc), WithTree())
	if err := WriteFlowchartFile(fc, path); err != nil {
		t.Fatalf("WriteFlowchartFile() error = %v", err)
	}
	got, err := ReadFlowchartFile(path)
	if err != nil {
		t.Fatalf("ReadFlowchartFile() error = %v", err)
	}
	if got.Tree == nil || len(got.Tree.Nodes) != len(fc.Tree.Nodes) {
		t.Error("tree lost in file round trip")
	}

	if _, err := ReadFlowchartFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadFlowchartFile() of missing file succeeded")
	}
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFlowchartFile(path); err == nil {
		t.Error("ReadFlowchartFile() of truncated file succeeded")
	}
}

func TestDisplayLabel(t *testing.T) {
	if got := (&Node{ID: "a"}).DisplayLabel(); got != "a" {
		t.Errorf("DisplayLabel() = %q, want a", got)
	}
	if got := (&Node{ID: "a", Label: "Send"}).DisplayLabel(); got != "Send" {
		t.Errorf("DisplayLabel() = %q, want Send", got)
	}
}
