package testing

import (
	"fmt"
	"sync"

	"github.com/loopbio/complexity/render"
)

// MockLoader is a render.Loader serving templates from memory. Rendering
// returns the stored body unchanged unless a RenderFunc is set.
type MockLoader struct {
	mu         sync.Mutex
	templates  map[string]string
	failures   map[string]error
	renderFunc func(name, body string, data map[string]any) (string, error)
	lookups    []string
	renders    []MockRenderCall
}

type MockRenderCall struct {
	Name   string
	Data   map[string]any
	Result string
}

func NewMockLoader() *MockLoader {
	return &MockLoader{
		templates: make(map[string]string),
		failures:  make(map[string]error),
	}
}

// AddTemplate registers body under a slash-separated name.
func (ml *MockLoader) AddTemplate(name, body string) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.templates[name] = body
}

// FailLookup makes Lookup of name return err.
func (ml *MockLoader) FailLookup(name string, err error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.failures[name] = err
}

func (ml *MockLoader) SetRenderFunc(fn func(name, body string, data map[string]any) (string, error)) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.renderFunc = fn
}

func (ml *MockLoader) Lookup(name string) (render.Template, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	ml.lookups = append(ml.lookups, name)
	if err, ok := ml.failures[name]; ok {
		return nil, err
	}
	body, ok := ml.templates[name]
	if !ok {
		return nil, fmt.Errorf("template not found: %s", name)
	}
	return &mockTemplate{loader: ml, name: name, body: body}, nil
}

// Lookups returns every name passed to Lookup, in call order.
func (ml *MockLoader) Lookups() []string {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return append([]string(nil), ml.lookups...)
}

func (ml *MockLoader) Renders() []MockRenderCall {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return append([]MockRenderCall(nil), ml.renders...)
}

type mockTemplate struct {
	loader *MockLoader
	name   string
	body   string
}

func (mt *mockTemplate) Render(data map[string]any) (string, error) {
	ml := mt.loader
	ml.mu.Lock()
	fn := ml.renderFunc
	ml.mu.Unlock()

	result := mt.body
	if fn != nil {
		var err error
		if result, err = fn(mt.name, mt.body, data); err != nil {
			return "", err
		}
	}

	ml.mu.Lock()
	ml.renders = append(ml.renders, MockRenderCall{Name: mt.name, Data: data, Result: result})
	ml.mu.Unlock()
	return result, nil
}
