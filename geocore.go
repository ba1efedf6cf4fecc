package main

import (
	"flag"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mirage3d/geocore/config"
	"github.com/mirage3d/geocore/geodetic"
	"github.com/mirage3d/geocore/status"
	"github.com/mirage3d/geocore/utils"
	"github.com/mirage3d/geocore/web"

	scenepkg "github.com/mirage3d/geocore/scene"
)

var verbose = flag.Bool("v", false, "Dump the demo scene tree on start")

func buildDemoScene(cfg config.Settings) *scenepkg.Scene {
	s := scenepkg.New("demo", cfg)

	earth := s.NewRoot("Earth")
	s.SetGeoreference(earth, geodetic.WGS84)

	city, err := s.NewNode("City", earth)
	if err != nil {
		log.Fatal(err)
	}
	if err := city.SetGeoCoordinateMode(true); err != nil {
		log.Fatal(err)
	}
	if err := city.SetGeoCoordinate(geodetic.Coordinate{Latitude: 47.22, Longitude: 39.72, Altitude: 80}); err != nil {
		log.Fatal(err)
	}

	tower, err := s.NewNode("Tower", city)
	if err != nil {
		log.Fatal(err)
	}
	tower.SetLocalPosition(mgl64.Vec3{0, 0, 120})

	probe, err := s.NewNode("OrbitalProbe", earth)
	if err != nil {
		log.Fatal(err)
	}
	probe.SetAbsolutePositioning(true)
	probe.SetLocalPosition(mgl64.Vec3{0, 0, 6778137})

	// keep the origin near the viewer so host floats stay small
	s.SetViewerPosition(city.Position())
	return s
}

func main() {
	var addr, cfgPath string
	var rate float64
	flag.StringVar(&addr, "i", "", "Address of inspector server (overrides config)")
	flag.StringVar(&cfgPath, "cfg", "", "Path to yaml config")
	flag.Float64Var(&rate, "rate", 30, "Update cycles per second")
	flag.Parse()

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	config.Set(cfg)
	if addr != "" {
		cfg.ListenAddr = addr
	}

	s := buildDemoScene(cfg)
	if *verbose {
		utils.LogDump(s.Roots())
	}

	go func() {
		if err := web.StartServer(cfg.ListenAddr, s); err != nil {
			log.Fatal(err)
		}
	}()

	dt := 1.0 / rate
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()

	var lastOrigin mgl64.Vec3
	for range ticker.C {
		start := time.Now()
		s.Update(dt)
		if o := s.Origin(); o != lastOrigin {
			lastOrigin = o
			status.OriginShift(o)
		}
		if s.Frame()%uint64(rate) == 0 {
			status.Frame(s.Frame(), time.Since(start))
		}
	}
}
