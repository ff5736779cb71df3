package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rmvision/armor-detect/internal/classify"
	"github.com/rmvision/armor-detect/internal/config"
	"github.com/rmvision/armor-detect/internal/depth"
	"github.com/rmvision/armor-detect/internal/frame"
	"github.com/rmvision/armor-detect/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("armor-detect %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	var (
		imagePath  = flag.String("image", "", "path to the color frame (required)")
		depthPath  = flag.String("depth", "", "path to a co-registered 16-bit depth PNG")
		depthScale = flag.Float64("depth-scale", 0.001, "metres per depth map unit")
		configPath = flag.String("config", "", "path to a JSON parameter file (defaults used when empty)")
		modelPath  = flag.String("model", "", "path to linear classifier weights (JSON)")
		labelPath  = flag.String("labels", "", "path to the classifier label list")
		backend    = flag.String("backend", "linear", "classifier backend: linear or tesseract")
		fx         = flag.Float64("fx", 0, "focal length x, pixels")
		fy         = flag.Float64("fy", 0, "focal length y, pixels")
		cx         = flag.Float64("cx", 0, "optical center x, pixels")
		cy         = flag.Float64("cy", 0, "optical center y, pixels")
	)
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if *imagePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	params := config.Default()
	if *configPath != "" {
		var err error
		params, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}
	}
	store, err := config.NewStore(params)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	var classifier classify.Classifier
	switch *backend {
	case "linear":
		if *modelPath == "" || *labelPath == "" {
			log.Fatal("The linear backend needs -model and -labels")
		}
		classifier, err = classify.LoadLinear(*modelPath, *labelPath)
		if err != nil {
			log.Fatalf("Classifier error: %v", err)
		}
	case "tesseract":
		classifier = classify.NewTesseract()
	default:
		log.Fatalf("Unknown backend %q", *backend)
	}

	var processor *depth.Processor
	if *fx > 0 && *fy > 0 {
		processor = depth.NewProcessor(depth.Intrinsics{Fx: *fx, Fy: *fy, Cx: *cx, Cy: *cy})
	}

	cache := frame.NewCache()
	img, err := cache.Load(*imagePath)
	if err != nil {
		log.Fatalf("Frame error: %v", err)
	}

	var depthMap *depth.Map
	if *depthPath != "" {
		depthMap, err = frame.LoadDepthPNG(*depthPath, *depthScale)
		if err != nil {
			log.Fatalf("Depth map error: %v", err)
		}
	}

	detector := pipeline.New(store, classifier, processor)
	result, err := detector.Detect(img, depthMap)
	if err != nil {
		log.Fatalf("Detection error: %v", err)
	}
	log.Printf("Detected %d armor(s) from %d light(s) in %s",
		len(result.Armors), result.Debug.LightCount, result.Debug.Timings.Total)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Encoding error: %v", err)
	}
	fmt.Println(string(out))
}
