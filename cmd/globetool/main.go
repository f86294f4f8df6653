// globetool inspects globe geometry and configuration without opening a
// window.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/beacon-earth/internal/config"
	"github.com/Faultbox/beacon-earth/internal/engine/mesh"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "mesh":
		err = cmdMesh(args)
	case "beacons":
		err = cmdBeacons(args)
	case "check":
		err = cmdCheck(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`globetool - Beacon Earth geometry and config utility

Usage:
  globetool <command> [options]

Commands:
  mesh [-radius r] [-segments n] [-rings n] [-obj file]
                                   Generate the sphere, print stats, optionally export OBJ
  beacons [-config file] [-angle deg]
                                   Print beacon placements as YAML
  check <config.yaml>              Validate a config file
  config                           Print the default config as YAML

Examples:
  globetool mesh -segments 64 -rings 32 -obj sphere.obj
  globetool beacons -angle 90
  globetool check ~/.config/beacon-earth/config.yaml`)
}

func cmdMesh(args []string) error {
	def := config.Default().Planet
	fs := flag.NewFlagSet("mesh", flag.ExitOnError)
	radius := fs.Float64("radius", float64(def.Radius), "Sphere radius")
	segments := fs.Int("segments", def.Segments, "Longitude segments")
	rings := fs.Int("rings", def.Rings, "Latitude rings")
	objPath := fs.String("obj", "", "Write the mesh as Wavefront OBJ")
	fs.Parse(args)

	m, err := mesh.GenerateSphere(float32(*radius), *segments, *rings)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("generated mesh invalid: %w", err)
	}

	fmt.Printf("Radius:    %g\n", *radius)
	fmt.Printf("Grid:      %d x %d\n", *segments, *rings)
	fmt.Printf("Vertices:  %d\n", m.VertexCount())
	fmt.Printf("Triangles: %d\n", m.TriangleCount())
	fmt.Printf("GPU bytes: %d\n", len(m.Interleaved())*4+len(m.Indices)*2)

	if *objPath == "" {
		return nil
	}
	f, err := os.Create(*objPath)
	if err != nil {
		return err
	}
	if err := writeOBJ(f, m); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", *objPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote:     %s\n", *objPath)
	return nil
}

func cmdBeacons(args []string) error {
	fs := flag.NewFlagSet("beacons", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Config file (defaults if empty)")
	angle := fs.Float64("angle", 0, "Globe rotation in degrees")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}

	report, err := beaconReport(cfg, *angle)
	if err != nil {
		return err
	}
	return writeYAML(os.Stdout, report)
}

func cmdCheck(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: globetool check <config.yaml>")
	}
	if _, err := config.LoadFile(args[0]); err != nil {
		return err
	}
	fmt.Printf("%s: ok\n", args[0])
	return nil
}

func cmdConfig(args []string) error {
	data, err := config.Default().Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}
