// Package darknet adapts a Darknet/YOLO model loaded through OpenCV's dnn
// module to the detect.Detector interface.
package darknet

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"gocv.io/x/gocv"

	"github.com/pixtag/pixtag/common/detect"
)

const inputSize = 416

// Detector runs a Darknet network via gocv. Safe for sequential use only;
// each pipeline invocation gets its own handle.
type Detector struct {
	net         gocv.Net
	labels      []string
	outputNames []string
}

// New loads the network and label list from disk
func New(configPath, weightsPath, labelsPath string) (*Detector, error) {
	labelData, err := os.ReadFile(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("read labels %s: %w", labelsPath, err)
	}
	labels := strings.Split(strings.TrimSpace(string(labelData)), "\n")

	net := gocv.ReadNetFromDarknet(configPath, weightsPath)
	if net.Empty() {
		return nil, fmt.Errorf("load darknet model from %s / %s", configPath, weightsPath)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		return nil, fmt.Errorf("set network backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		return nil, fmt.Errorf("set network target: %w", err)
	}

	return &Detector{
		net:         net,
		labels:      labels,
		outputNames: outputLayerNames(&net),
	}, nil
}

// Close releases the underlying network
func (d *Detector) Close() error {
	return d.net.Close()
}

// Labels returns the class label list indexed by class id
func (d *Detector) Labels() []string {
	return d.labels
}

// Forward decodes the image and runs a forward pass over the output layers.
// YOLO rows carry an objectness entry between the box and the class scores;
// it is stripped here so the engine sees box entries followed directly by
// per-class scores.
func (d *Detector) Forward(_ context.Context, imageData []byte) (*detect.RawOutput, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(inputSize, inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	outputs := d.net.ForwardLayers(d.outputNames)
	defer func() {
		for _, out := range outputs {
			out.Close()
		}
	}()

	raw := &detect.RawOutput{
		Width:  mat.Cols(),
		Height: mat.Rows(),
	}

	for _, out := range outputs {
		rows := out.Rows()
		cols := out.Cols()
		if cols < 6 {
			continue
		}

		layer := make(detect.Layer, 0, rows)
		for r := 0; r < rows; r++ {
			vec := make([]float32, 0, cols-1)
			for c := 0; c < 4; c++ {
				vec = append(vec, out.GetFloatAt(r, c))
			}
			// skip column 4 (objectness)
			for c := 5; c < cols; c++ {
				vec = append(vec, out.GetFloatAt(r, c))
			}
			layer = append(layer, vec)
		}
		raw.Layers = append(raw.Layers, layer)
	}

	return raw, nil
}

// outputLayerNames resolves the unconnected output layers of the network
func outputLayerNames(net *gocv.Net) []string {
	names := net.GetLayerNames()
	var out []string
	for _, idx := range net.GetUnconnectedOutLayers() {
		if idx-1 >= 0 && idx-1 < len(names) {
			out = append(out, names[idx-1])
		}
	}
	return out
}
