package converter

import (
	"github.com/mashiro3d/fbx2usd/fbx"
	"github.com/mashiro3d/fbx2usd/geom"
)

type transformSpace int

const (
	spaceLocal transformSpace = iota
	spaceWorld
)

// collectJointChain walks a joint chain depth-first from its root using an
// explicit stack. A child that is not a joint-type node is reported and its
// subtree skipped.
func collectJointChain(root *fbx.Node, diags *Diagnostics) []*fbx.Node {
	var chain []*fbx.Node
	stack := []*fbx.Node{root}
	for len(stack) > 0 {
		joint := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		chain = append(chain, joint)
		for i := len(joint.Children) - 1; i >= 0; i-- {
			child := joint.Children[i]
			if !child.IsSkeleton() {
				diags.warnf(child.Name, "",
					"%q is not a joint but sits inside a joint chain; it and its children are ignored", child.Name)
				continue
			}
			stack = append(stack, child)
		}
	}
	return chain
}

// jointPathTokens builds one root-relative path token per joint, in chain
// order. The token list is positionally aligned with the rest-transform
// arrays built from the same chain.
func jointPathTokens(chain []*fbx.Node) []string {
	if len(chain) == 0 {
		return nil
	}
	rootName := chain[0].Name
	tokens := make([]string, len(chain))
	for i, joint := range chain {
		tokens[i] = jointPathToken(joint, rootName)
	}
	return tokens
}

// jointRestTransforms bakes the chain's rest transforms at bind time, one
// matrix per joint in chain order. The scale component is forced to unit
// scale in all cases: joints do not support inherited non-uniform scale.
// For local space the translation is rescaled by the file's unit scale
// factor to compensate the forced-unit-scale effect on translation
// inheritance.
func jointRestTransforms(chain []*fbx.Node, eval *fbx.Evaluator, scaleFactor float64, space transformSpace) []geom.Matrix4 {
	out := make([]geom.Matrix4, 0, len(chain))
	for _, joint := range chain {
		var m *geom.Matrix4
		if space == spaceLocal {
			m = eval.NodeLocalTransform(joint, 0)
		} else {
			m = eval.NodeWorldTransform(joint, 0)
		}
		m.SetS(&geom.Vector3{X: 1, Y: 1, Z: 1})
		m.SetT(m.GetT().Scale(scaleFactor))
		out = append(out, *m)
	}
	return out
}
