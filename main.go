// Command spritec compiles a cel-position file and a sprite sheet
// image into CHR tile data and an assembly-language metasprite table.
package main

import (
	"flag"
	"image"
	_ "image/png"
	"log"
	"os"

	"github.com/bdwalton/spritec/debugimg"
	"github.com/bdwalton/spritec/emit"
	"github.com/bdwalton/spritec/pipeline"
)

var (
	frameNums  = flag.String("write-frame-numbers", "", "Path to write a FRAME_*/FRAMEBANK_*/FRAMETILENUM_* listing.")
	prefix     = flag.String("prefix", "", "Symbol prefix for the emitted assembly labels.")
	segment    = flag.String("segment", emit.DefaultSegment, "Output segment name for the assembly table.")
	bankSize   = flag.Int("bank-size", 32, "Maximum distinct tiles per bank.")
	chrOut     = flag.String("chr-out", "", "Path to write the raw CHR blob (default: <cels>.chr).")
	asmOut     = flag.String("asm-out", "", "Path to write the assembly table (default: <cels>.s).")
	intermed   = flag.Bool("intermediate", false, "Write a debug PNG of the interned tile grid.")
	intermedSh = flag.Bool("d", false, "Shorthand for --intermediate.")
)

func main() {
	flag.Parse()

	if flag.NArg() < 2 {
		log.Fatalf("usage: spritec [flags] <cel-position-file> <image-file> [chr-file] [asm-file]")
	}
	celsPath, imgPath := flag.Arg(0), flag.Arg(1)

	celFile, err := os.Open(celsPath)
	if err != nil {
		log.Fatalf("opening cel-position file: %v", err)
	}
	defer celFile.Close()

	sheet, err := decodeImage(imgPath)
	if err != nil {
		log.Fatalf("decoding sprite sheet: %v", err)
	}

	res, err := pipeline.Run(celFile, sheet, pipeline.Options{
		BankSize: *bankSize,
		Prefix:   *prefix,
		Segment:  *segment,
	})
	if err != nil {
		log.Fatalf("compiling %q: %v", celsPath, err)
	}

	if err := writeOutputs(res, celsPath); err != nil {
		log.Fatalf("writing outputs: %v", err)
	}

	if *intermed || *intermedSh {
		if err := writeDebugImage(res, celsPath); err != nil {
			log.Fatalf("writing debug image: %v", err)
		}
	}

	os.Exit(0)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

func writeOutputs(res *pipeline.Result, celsPath string) error {
	chrPath := *chrOut
	if chrPath == "" && flag.NArg() > 2 {
		chrPath = flag.Arg(2)
	}
	if chrPath == "" {
		chrPath = withExt(celsPath, ".chr")
	}
	asmPath := *asmOut
	if asmPath == "" && flag.NArg() > 3 {
		asmPath = flag.Arg(3)
	}
	if asmPath == "" {
		asmPath = withExt(celsPath, ".s")
	}

	chrFile, err := os.Create(chrPath)
	if err != nil {
		return err
	}
	defer chrFile.Close()
	if err := emit.WriteCHR(chrFile, res.Banks, res.Tiles); err != nil {
		return err
	}

	asmFile, err := os.Create(asmPath)
	if err != nil {
		return err
	}
	defer asmFile.Close()
	opts := emit.AssemblyOptions{Prefix: *prefix, Segment: *segment}
	if err := emit.WriteAssembly(asmFile, opts, res.Cels, res.Tiles.Len()); err != nil {
		return err
	}

	if *frameNums != "" {
		fnFile, err := os.Create(*frameNums)
		if err != nil {
			return err
		}
		defer fnFile.Close()
		if err := emit.WriteFrameNumbers(fnFile, res.Cels, res.TileBase); err != nil {
			return err
		}
	}

	return nil
}

func writeDebugImage(res *pipeline.Result, celsPath string) error {
	f, err := os.Create(withExt(celsPath, ".debug.png"))
	if err != nil {
		return err
	}
	defer f.Close()
	return debugimg.Write(f, res.Tiles, res.File.Palettes, 16)
}

func withExt(path, ext string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[:i] + ext
		}
	}
	return path + ext
}
