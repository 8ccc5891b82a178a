package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/annel0/voxelwalk/internal/config"
	"github.com/annel0/voxelwalk/internal/logging"
	"github.com/annel0/voxelwalk/internal/storage"
	"github.com/annel0/voxelwalk/internal/world"
	// Регистрация поведений блоков
	_ "github.com/annel0/voxelwalk/internal/world/block/implementations"
)

func main() {
	var (
		command = flag.String("cmd", "inspect", "Command: generate, inspect, import, export, list, delete")
		kind    = flag.String("kind", config.SourcePerlin, "Generator for generate: perlin, flat")
		seed    = flag.Int64("seed", 1, "Perlin seed")
		height  = flag.Int("height", 4, "Floor height for the flat generator")
		size    = flag.Int("size", world.ChunkSize, "Cube side of the generated volume")
		file    = flag.String("file", "", "Snapshot file path")
		dataDir = flag.String("data", "data/volumes", "Volume store directory")
		name    = flag.String("name", "", "Volume name in the store")
		dump    = flag.Int("dump", 32, "Bytes of the encoded volume to hex dump on inspect, 0 to disable")
	)
	flag.Parse()

	var err error
	switch *command {
	case "generate":
		err = generate(*kind, *seed, *height, *size, *file, *dataDir, *name)
	case "inspect":
		err = inspect(*file, *dataDir, *name, *dump)
	case "import":
		err = importFile(*file, *dataDir, *name)
	case "export":
		err = exportFile(*file, *dataDir, *name)
	case "list":
		err = list(*dataDir)
	case "delete":
		err = deleteVolume(*dataDir, *name)
	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: generate, inspect, import, export, list, delete")
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("❌ %s failed: %v\n", *command, err)
		os.Exit(1)
	}
}

// generate строит объём и сохраняет его в файл и/или хранилище
func generate(kind string, seed int64, height, size int, file, dataDir, name string) error {
	if file == "" && name == "" {
		return fmt.Errorf("укажите -file и/или -name")
	}

	cube := world.ChunkSize
	if size > 0 {
		cube = size
	}

	var (
		gen    world.Generator
		source string
	)
	switch kind {
	case config.SourcePerlin:
		g := world.NewWorldGenerator(seed)
		g.Size.X, g.Size.Y, g.Size.Z = cube, cube, cube
		gen, source = g, fmt.Sprintf("perlin:%d", seed)
	case config.SourceFlat:
		g := world.NewFlatGenerator(height)
		g.Size.X, g.Size.Y, g.Size.Z = cube, cube, cube
		gen, source = g, fmt.Sprintf("flat:%d", height)
	default:
		return fmt.Errorf("неизвестный генератор %q", kind)
	}

	v, err := gen.Generate()
	if err != nil {
		return err
	}

	if file != "" {
		if err := storage.WriteVolumeFile(file, v, source); err != nil {
			return err
		}
		fmt.Printf("💾 %s -> %s\n", source, file)
	}
	if name != "" {
		if err := withStore(dataDir, func(vs *storage.VolumeStorage) error {
			meta, err := vs.SaveVolume(name, v)
			if err == nil {
				fmt.Printf("💾 %s -> store %s (%d bytes)\n", source, meta.Name, meta.Bytes)
			}
			return err
		}); err != nil {
			return err
		}
	}
	printVolume(v)
	return nil
}

// inspect печатает сведения об объёме из файла или хранилища
func inspect(file, dataDir, name string, dump int) error {
	v, err := load(file, dataDir, name)
	if err != nil {
		return err
	}
	if file != "" {
		header, err := storage.ReadVolumeHeader(file)
		if err != nil {
			return err
		}
		fmt.Printf("📄 %s: format %s, source %s, created %s\n",
			file, header.Format, header.Source, header.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	printVolume(v)
	if dump > 0 {
		fmt.Printf("🔎 Encoded volume, first %d bytes:\n%s", dump, logging.HexDump(world.EncodeVolume(v), dump))
	}
	return nil
}

func importFile(file, dataDir, name string) error {
	if file == "" || name == "" {
		return fmt.Errorf("нужны -file и -name")
	}
	v, _, err := storage.ReadVolumeFile(file)
	if err != nil {
		return err
	}
	return withStore(dataDir, func(vs *storage.VolumeStorage) error {
		meta, err := vs.SaveVolume(name, v)
		if err == nil {
			fmt.Printf("📥 %s -> %s (%d solid)\n", file, meta.Name, meta.Solid)
		}
		return err
	})
}

func exportFile(file, dataDir, name string) error {
	if file == "" || name == "" {
		return fmt.Errorf("нужны -file и -name")
	}
	return withStore(dataDir, func(vs *storage.VolumeStorage) error {
		v, err := vs.LoadVolume(name)
		if err != nil {
			return err
		}
		if err := storage.WriteVolumeFile(file, v, "store:"+name); err != nil {
			return err
		}
		fmt.Printf("📤 %s -> %s\n", name, file)
		return nil
	})
}

func list(dataDir string) error {
	return withStore(dataDir, func(vs *storage.VolumeStorage) error {
		metas, err := vs.ListVolumes()
		if err != nil {
			return err
		}
		fmt.Printf("📦 %d volumes in %s\n", len(metas), vs.Path())
		for _, m := range metas {
			fmt.Printf("  %-20s %dx%dx%d  solid %-5d  %6d bytes  %s\n",
				m.Name, m.Size.X, m.Size.Y, m.Size.Z, m.Solid, m.Bytes, m.SavedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	})
}

func deleteVolume(dataDir, name string) error {
	if name == "" {
		return fmt.Errorf("нужен -name")
	}
	return withStore(dataDir, func(vs *storage.VolumeStorage) error {
		return vs.DeleteVolume(name)
	})
}

func load(file, dataDir, name string) (*world.Volume, error) {
	if file != "" {
		v, _, err := storage.ReadVolumeFile(file)
		return v, err
	}
	if name == "" {
		return nil, fmt.Errorf("укажите -file или -name")
	}
	var v *world.Volume
	err := withStore(dataDir, func(vs *storage.VolumeStorage) error {
		var err error
		v, err = vs.LoadVolume(name)
		return err
	})
	return v, err
}

func withStore(dataDir string, fn func(vs *storage.VolumeStorage) error) error {
	vs, err := storage.NewVolumeStorage(dataDir)
	if err != nil {
		return err
	}
	defer vs.Close()
	return fn(vs)
}

// printVolume печатает размер и карту высот (x - столбцы, z - строки)
func printVolume(v *world.Volume) {
	size := v.Size()
	fmt.Printf("🧱 %dx%dx%d, %d solid blocks\n", size.X, size.Y, size.Z, v.SolidCount())

	var sb strings.Builder
	for z := 0; z < size.Z; z++ {
		sb.WriteString("  ")
		for x := 0; x < size.X; x++ {
			h := v.TerrainHeight(x, z)
			if h == world.NoGround {
				sb.WriteString(" .")
			} else {
				fmt.Fprintf(&sb, "%2d", h)
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	fmt.Print(sb.String())
}
