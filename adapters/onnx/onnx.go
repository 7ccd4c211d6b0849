// Package onnx adapts an ONNX-exported binary classifier to the
// ovassess.Classifier interface. The artifact is expected to expose the
// standard exported-classifier outputs: an int64 label tensor and a
// float32 [1,2] probability tensor (zipmap disabled at export time).
package onnx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/oncorisk/ovassess"
	"github.com/oncorisk/ovassess/featureset"
)

const (
	inputName             = "float_input"
	outputLabelName       = "label"
	outputProbabilityName = "probabilities"

	// DefaultColumnsFile is the column-sidecar filename looked up next to
	// the model when no explicit path is configured.
	DefaultColumnsFile = "model_columns.json"
)

// Config holds configuration for loading a classifier artifact.
type Config struct {
	// ModelPath is the .onnx artifact.
	ModelPath string

	// ColumnsPath is the persisted ordered column list. If empty, uses
	// DefaultColumnsFile in the model's directory.
	ColumnsPath string

	// SharedLibraryPath overrides the onnxruntime shared library location.
	SharedLibraryPath string
}

// ortInit guards the process-wide onnxruntime environment.
var ortInit sync.Once

func initEnvironment(sharedLibraryPath string) error {
	var err error
	ortInit.Do(func() {
		if sharedLibraryPath != "" {
			ort.SetSharedLibraryPath(sharedLibraryPath)
		}
		err = ort.InitializeEnvironment()
	})
	return err
}

// Classifier scores feature vectors with a loaded ONNX session. The session
// is read-only after load; scoring is serialized with a mutex because the
// runtime session is not guaranteed safe for concurrent Run calls.
type Classifier struct {
	session *ort.DynamicAdvancedSession
	schema  *featureset.Schema

	mu sync.Mutex
}

// Load opens the artifact and resolves its schema from the column sidecar.
// A missing artifact or an unusable sidecar is a hard failure: without the
// declared column order no vector can be reconciled for this model.
func Load(cfg Config) (*Classifier, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("onnx: model path not set: %w", ovassess.ErrModelUnavailable)
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("onnx: model artifact %s: %v: %w", cfg.ModelPath, err, ovassess.ErrModelUnavailable)
	}

	columnsPath := cfg.ColumnsPath
	if columnsPath == "" {
		columnsPath = filepath.Join(filepath.Dir(cfg.ModelPath), DefaultColumnsFile)
	}
	schema, err := LoadSchema(columnsPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: column sidecar %s: %v: %w", columnsPath, err, ovassess.ErrModelUnavailable)
	}

	if err := initEnvironment(cfg.SharedLibraryPath); err != nil {
		return nil, fmt.Errorf("onnx: initialize runtime: %v: %w", err, ovassess.ErrModelUnavailable)
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{inputName},
		[]string{outputLabelName, outputProbabilityName},
		nil)
	if err != nil {
		return nil, fmt.Errorf("onnx: open session: %v: %w", err, ovassess.ErrModelUnavailable)
	}

	return &Classifier{session: session, schema: schema}, nil
}

// Schema returns the ordered field set resolved from the artifact's sidecar.
func (c *Classifier) Schema() *featureset.Schema {
	return c.schema
}

// Predict scores one reconciled vector.
func (c *Classifier) Predict(_ context.Context, vec featureset.Vector) (ovassess.Prediction, error) {
	if vec.Len() != c.schema.Len() {
		return ovassess.Prediction{}, fmt.Errorf("vector has %d values, model expects %d", vec.Len(), c.schema.Len())
	}

	input, err := ort.NewTensor(ort.NewShape(1, int64(vec.Len())), vec.Float32s())
	if err != nil {
		return ovassess.Prediction{}, fmt.Errorf("build input tensor: %w", err)
	}
	defer input.Destroy()

	labelOut, err := ort.NewEmptyTensor[int64](ort.NewShape(1))
	if err != nil {
		return ovassess.Prediction{}, fmt.Errorf("build label tensor: %w", err)
	}
	defer labelOut.Destroy()

	probOut, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 2))
	if err != nil {
		return ovassess.Prediction{}, fmt.Errorf("build probability tensor: %w", err)
	}
	defer probOut.Destroy()

	c.mu.Lock()
	err = c.session.Run([]ort.Value{input}, []ort.Value{labelOut, probOut})
	c.mu.Unlock()
	if err != nil {
		return ovassess.Prediction{}, fmt.Errorf("score vector: %w", err)
	}

	return decodeOutputs(labelOut.GetData(), probOut.GetData())
}

// Close releases the runtime session.
func (c *Classifier) Close() error {
	return c.session.Destroy()
}

// decodeOutputs translates the artifact's raw output tensors into a
// Prediction. The probability reported is always the positive class's.
func decodeOutputs(labels []int64, probabilities []float32) (ovassess.Prediction, error) {
	if len(labels) < 1 {
		return ovassess.Prediction{}, fmt.Errorf("model returned no label")
	}
	if len(probabilities) < 2 {
		return ovassess.Prediction{}, fmt.Errorf("model returned %d class probabilities, want 2", len(probabilities))
	}

	label := int(labels[0])
	if label != 0 && label != 1 {
		return ovassess.Prediction{}, fmt.Errorf("model returned label %d outside {0,1}", label)
	}

	p := float64(probabilities[1])
	if p < 0 || p > 1 {
		return ovassess.Prediction{}, fmt.Errorf("model returned probability %f outside [0,1]", p)
	}

	return ovassess.Prediction{Label: label, Probability: p}, nil
}
