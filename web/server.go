// Package web is the scene inspector: JSON dumps of the transform tree
// (authoritative doubles next to host-visible floats) plus a websocket
// status stream.
package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mirage3d/geocore/scene"
)

var serverScene *scene.Scene

func StartServer(addr string, s *scene.Scene) error {
	serverScene = s

	r := mux.NewRouter()
	r.HandleFunc("/json/scene", HandlerAjaxScene)
	r.HandleFunc("/json/node/{id}", HandlerAjaxNode)
	r.HandleFunc("/json/originshift", HandlerAjaxOriginShift)
	r.HandleFunc("/dump/scene/gltf", HandlerDumpSceneGltf)
	r.HandleFunc("/ws/status", HandlerWsStatus)

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting inspector %v", addr)

	return http.ListenAndServe(addr, h)
}
