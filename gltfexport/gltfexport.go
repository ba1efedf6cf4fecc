// Package gltfexport writes the transform hierarchy as a glTF node
// tree, using the host-visible single-precision values so the exported
// scene matches what the renderer is handed.
package gltfexport

import (
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mirage3d/geocore/mathd"
	"github.com/mirage3d/geocore/scene"
	"github.com/mirage3d/geocore/transform"
)

// Export builds a glTF document with one node per live transform node,
// preserving child order.
func Export(s *scene.Scene) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "geocore"

	for _, root := range s.Roots() {
		idx, err := exportNode(doc, root)
		if err != nil {
			return nil, err
		}
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, idx)
	}
	return doc, nil
}

func exportNode(doc *gltf.Document, n *transform.Node) (uint32, error) {
	if !n.Alive() {
		return 0, errors.Errorf("Cannot export disposed node %q", n.Name())
	}

	pos := mathd.Vec32(n.LocalPosition())
	rot := mathd.Quat32(n.LocalRotation())
	scl := mathd.Vec32(n.LocalScale())
	if h := n.Host(); h != nil {
		pos = h.LocalPosition()
		rot = h.LocalRotation()
		scl = h.LocalScale()
	}

	node := &gltf.Node{
		Name:        n.Name(),
		Translation: pos,
		Rotation:    [4]float32{rot.V[0], rot.V[1], rot.V[2], rot.W},
		Scale:       scl,
	}

	idx := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, node)

	for _, c := range n.Children() {
		childIdx, err := exportNode(doc, c)
		if err != nil {
			return 0, err
		}
		node.Children = append(node.Children, childIdx)
	}
	return idx, nil
}

// Save writes the scene hierarchy to a .gltf file.
func Save(s *scene.Scene, path string) error {
	doc, err := Export(s)
	if err != nil {
		return err
	}
	if err := gltf.Save(doc, path); err != nil {
		return errors.Wrapf(err, "Failed to save gltf %q", path)
	}
	return nil
}

// Encode streams the document, binary (.glb) when asBinary is set.
func Encode(s *scene.Scene, w io.Writer, asBinary bool) error {
	doc, err := Export(s)
	if err != nil {
		return err
	}
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = asBinary
	return encoder.Encode(doc)
}
