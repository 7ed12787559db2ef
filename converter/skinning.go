package converter

import (
	"sort"

	"github.com/mashiro3d/fbx2usd/fbx"
	"github.com/mashiro3d/fbx2usd/usd"
)

// bindingData is a skin deformer flattened into the arrays a skinned-mesh
// schema expects: per-vertex index/weight blocks of a fixed element size,
// positionally aligned joint tokens and the skeleton's prim path.
type bindingData struct {
	Joints       []string
	JointIndices []int32
	JointWeights []float32
	ElementSize  int
	SkeletonPath usd.Path
}

// skeletonRootJoint walks up from a joint until the parent is no longer a
// joint-type node.
func skeletonRootJoint(joint *fbx.Node) *fbx.Node {
	root := joint
	for root != nil {
		parent := root.Parent
		if !parent.IsSkeleton() {
			break
		}
		root = parent
	}
	return root
}

// jointPathToken builds the root-relative slash path for a joint, ending in
// the joint's own name and starting at the chain root.
func jointPathToken(joint *fbx.Node, rootName string) string {
	if joint.Name == rootName {
		return joint.Name
	}
	path := joint.Name
	for parent := joint.Parent; parent != nil; parent = parent.Parent {
		path = parent.Name + "/" + path
		if parent.Name == rootName {
			break
		}
	}
	return path
}

type influence struct {
	index  int32
	weight float64
}

// resolveSkinBinding converts a skin deformer into per-vertex joint
// index/weight arrays. Every vertex gets exactly elementSize entries; short
// influence lists pad with (0, 0). Normalization and weight-descending
// ordering run as a second pass over the flattened arrays, so cluster
// insertion order cannot skew the result. A skin with zero clusters yields
// an empty binding.
func resolveSkinBinding(skin *fbx.Skin, mesh *fbx.Mesh, rootPath usd.Path) bindingData {
	if skin == nil || len(skin.Clusters) == 0 {
		return bindingData{}
	}

	rootJoint := skeletonRootJoint(skin.Clusters[0].Link)
	rootName := ""
	if rootJoint != nil {
		rootName = rootJoint.Name
	}

	perVertex := make([][]influence, len(mesh.ControlPoints))
	elementSize := 0
	var joints []string
	for _, cluster := range skin.Clusters {
		if cluster.Link == nil {
			continue
		}
		ordinal := int32(len(joints))
		for i, cp := range cluster.ControlPointIndices {
			if cp < 0 || cp >= len(perVertex) {
				continue
			}
			weight := 0.0
			if i < len(cluster.Weights) {
				weight = cluster.Weights[i]
			}
			perVertex[cp] = append(perVertex[cp], influence{index: ordinal, weight: weight})
			if len(perVertex[cp]) > elementSize {
				elementSize = len(perVertex[cp])
			}
		}
		joints = append(joints, jointPathToken(cluster.Link, rootName))
	}

	indices := make([]int32, 0, len(perVertex)*elementSize)
	weights := make([]float32, 0, len(perVertex)*elementSize)
	for _, influences := range perVertex {
		for i := 0; i < elementSize; i++ {
			if i < len(influences) {
				indices = append(indices, influences[i].index)
				weights = append(weights, float32(influences[i].weight))
			} else {
				indices = append(indices, 0)
				weights = append(weights, 0)
			}
		}
	}

	normalizeWeights(weights, elementSize)
	sortInfluences(indices, weights, elementSize)

	skeletonPath := rootPath
	if rootJoint != nil {
		var segments []string
		for n := rootJoint; n != nil && n.Parent != nil; n = n.Parent {
			segments = append(segments, cleanName(n.Name))
		}
		for i := len(segments) - 1; i >= 0; i-- {
			skeletonPath = skeletonPath.AppendChild(segments[i])
		}
	}

	return bindingData{
		Joints:       joints,
		JointIndices: indices,
		JointWeights: weights,
		ElementSize:  elementSize,
		SkeletonPath: skeletonPath,
	}
}

// normalizeWeights rescales each vertex's elementSize block so its weights
// sum to 1. All-zero blocks stay zero.
func normalizeWeights(weights []float32, elementSize int) {
	if elementSize <= 0 {
		return
	}
	for start := 0; start+elementSize <= len(weights); start += elementSize {
		var sum float32
		for i := start; i < start+elementSize; i++ {
			sum += weights[i]
		}
		if sum == 0 {
			continue
		}
		for i := start; i < start+elementSize; i++ {
			weights[i] /= sum
		}
	}
}

// sortInfluences reorders each vertex's elementSize block by descending
// weight, keeping indices aligned with their weights.
func sortInfluences(indices []int32, weights []float32, elementSize int) {
	if elementSize <= 1 {
		return
	}
	for start := 0; start+elementSize <= len(weights); start += elementSize {
		block := make([]influence, elementSize)
		for i := 0; i < elementSize; i++ {
			block[i] = influence{index: indices[start+i], weight: float64(weights[start+i])}
		}
		sort.SliceStable(block, func(a, b int) bool {
			return block[a].weight > block[b].weight
		})
		for i := 0; i < elementSize; i++ {
			indices[start+i] = block[i].index
			weights[start+i] = float32(block[i].weight)
		}
	}
}
