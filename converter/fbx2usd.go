package converter

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/mashiro3d/fbx2usd/fbx"
	"github.com/mashiro3d/fbx2usd/usd"
)

// FBXToUSDOption controls one conversion.
type FBXToUSDOption struct {
	// RootPrimName is the name of the prim every converted node is placed
	// under. Empty means "ROOT".
	RootPrimName string `yaml:"rootPrimName"`

	// FrameStart/FrameStop override the document's animation span.
	FrameStart *float64 `yaml:"frameStart"`
	FrameStop  *float64 `yaml:"frameStop"`

	// SkipKinds lists attribute kind names ("Mesh", "Camera", ...) whose
	// nodes are dropped entirely, children included.
	SkipKinds []string `yaml:"skipKinds"`

	// Logger receives warnings as they are recorded. Nil disables logging;
	// warnings are still collected.
	Logger *log.Logger `yaml:"-"`
}

// FBXToUSDConverter translates a source scene graph into a scene
// description document. A converter is single-use per Convert call with
// respect to diagnostics.
type FBXToUSDConverter struct {
	options *FBXToUSDOption
	diags   *Diagnostics
}

func NewFBXToUSDConverter(options *FBXToUSDOption) *FBXToUSDConverter {
	if options == nil {
		options = &FBXToUSDOption{}
	}
	return &FBXToUSDConverter{options: options, diags: newDiagnostics(options.Logger)}
}

// Diagnostics returns the warnings recorded by the last Convert.
func (c *FBXToUSDConverter) Diagnostics() *Diagnostics {
	return c.diags
}

// Convert translates the document. Warnings never abort the conversion; the
// only error is a nil input.
func (c *FBXToUSDConverter) Convert(src *fbx.Document) (*usd.Document, error) {
	if src == nil || src.Root == nil {
		return nil, errors.New("converter: nil source document")
	}
	c.diags = newDiagnostics(c.options.Logger)

	rootName := c.options.RootPrimName
	if rootName == "" {
		rootName = "ROOT"
	}
	rootPath := usd.RootPath.AppendChild(cleanName(rootName))

	out := usd.NewDocument()
	rootPrim := out.GetOrAddPrim(rootPath)
	rootPrim.TypeName = usd.PrimXform
	rootPrim.Metadata[usd.MetaActive] = true
	rootPrim.Metadata[usd.MetaHidden] = false

	span := src.AnimTimeSpan
	if c.options.FrameStart != nil {
		span.Start = fbx.Time(*c.options.FrameStart)
	}
	if c.options.FrameStop != nil {
		span.Stop = fbx.Time(*c.options.FrameStop)
	}

	skip := map[string]bool{}
	for _, kind := range c.options.SkipKinds {
		skip[kind] = true
	}

	layer := src.DefaultAnimLayer()

	type workItem struct {
		node   *fbx.Node
		parent usd.Path
	}
	var stack []workItem
	push := func(parent usd.Path, nodes []*fbx.Node) {
		for i := len(nodes) - 1; i >= 0; i-- {
			stack = append(stack, workItem{node: nodes[i], parent: parent})
		}
	}
	push(rootPath, src.Root.Children)

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := item.node

		if skip[node.Kind.String()] {
			continue
		}

		path := item.parent.AppendChild(cleanName(node.Name))

		// Non-root joints are flattened into the skeleton prim created at
		// the chain root; they get no prim of their own.
		dispatch := !(node.IsSkeleton() && node.Parent.IsSkeleton())
		if dispatch {
			ctx := &nodeContext{
				node:     node,
				path:     path,
				rootPath: rootPath,
				layer:    layer,
				span:     span,
				src:      src,
				out:      out,
				diags:    c.diags,
			}
			for _, reader := range nodeReaders[node.Kind] {
				reader(ctx)
			}
			if _, created := out.Prim(path); created {
				if parent, ok := out.Prim(item.parent); ok {
					parent.AddChildName(path.Name())
				} else {
					c.diags.warnf(node.Name, path, "unable to find a parent at path %q", item.parent)
				}
			}
		}

		push(path, node.Children)
	}

	return out, nil
}
