package web

import (
	"bytes"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mirage3d/geocore/gltfexport"
	"github.com/mirage3d/geocore/status"
	"github.com/mirage3d/geocore/transform"
	"github.com/mirage3d/geocore/webutils"
)

// NodeDump is the JSON view of one node: authoritative doubles next to
// the host-visible floats the renderer actually sees.
type NodeDump struct {
	Id    uint32
	Name  string
	Alive bool

	Absolute          bool
	GeoCoordinateMode bool
	OriginShiftDirty  bool

	LocalPosition [3]float64
	LocalRotation [4]float64
	LocalScale    [3]float64
	WorldPosition [3]float64

	HostLocalPosition *[3]float32 `json:",omitempty"`

	Children []*NodeDump `json:",omitempty"`
}

func dumpNode(n *transform.Node) *NodeDump {
	if !n.Alive() {
		return &NodeDump{Id: n.ID(), Name: n.Name()}
	}
	lp := n.LocalPosition()
	lr := n.LocalRotation()
	ls := n.LocalScale()
	wp := n.Position()
	d := &NodeDump{
		Id:                n.ID(),
		Name:              n.Name(),
		Alive:             true,
		Absolute:          n.AbsolutePositioning(),
		GeoCoordinateMode: n.GeoCoordinateMode(),
		OriginShiftDirty:  n.OriginShiftDirty(),
		LocalPosition:     [3]float64{lp.X(), lp.Y(), lp.Z()},
		LocalRotation:     [4]float64{lr.W, lr.X(), lr.Y(), lr.Z()},
		LocalScale:        [3]float64{ls.X(), ls.Y(), ls.Z()},
		WorldPosition:     [3]float64{wp.X(), wp.Y(), wp.Z()},
	}
	if h := n.Host(); h != nil {
		hp := h.LocalPosition()
		d.HostLocalPosition = &[3]float32{hp.X(), hp.Y(), hp.Z()}
	}
	for _, c := range n.Children() {
		d.Children = append(d.Children, dumpNode(c))
	}
	return d
}

func HandlerAjaxScene(w http.ResponseWriter, r *http.Request) {
	roots := serverScene.Roots()
	dump := make([]*NodeDump, 0, len(roots))
	for _, root := range roots {
		dump = append(dump, dumpNode(root))
	}
	webutils.WriteJson(w, dump)
}

func HandlerAjaxNode(w http.ResponseWriter, r *http.Request) {
	idString := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(idString, 10, 32)
	if err != nil {
		webutils.WriteError(w, errors.Errorf("param %q is not a node id", idString))
		return
	}
	n := serverScene.Find(uint32(id))
	if n == nil {
		webutils.WriteError(w, errors.Errorf("no node with id %v", id))
		return
	}
	webutils.WriteJson(w, dumpNode(n))
}

func HandlerAjaxOriginShift(w http.ResponseWriter, r *http.Request) {
	o := serverScene.Origin()
	webutils.WriteJson(w, struct {
		Enabled bool
		Origin  [3]float64
	}{
		Enabled: serverScene.OriginShift().Enabled(),
		Origin:  [3]float64{o.X(), o.Y(), o.Z()},
	})
}

func HandlerDumpSceneGltf(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := gltfexport.Encode(serverScene, &buf, true); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, serverScene.Name+".glb")
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func HandlerWsStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	status.NewClient(conn)
}
