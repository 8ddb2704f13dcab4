package jexlinterp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/value"
)

// recordingAnnotationProcessor proves processAnnotation is invoked exactly
// once and that it controls the thunk's return value.
type recordingAnnotationProcessor struct {
	calls int
	names []string
}

func (p *recordingAnnotationProcessor) ProcessAnnotation(name string, args []value.Value, thunk func() (value.Value, error)) (value.Value, error) {
	p.calls++
	p.names = append(p.names, name)
	v, err := thunk()
	if err != nil {
		return nil, err
	}
	if n, ok := v.(value.Int); ok {
		return value.Int{Value: n.Value * 2}, nil
	}
	return v, nil
}

func TestAnnotation_ProcessorInvokedExactlyOnce(t *testing.T) {
	ctx := newCtx(t, nil)
	proc := &recordingAnnotationProcessor{}
	ctx.SetAnnotationProcessor(proc)
	v, err := run(t, "@transactional 21;", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 42}, v)
	require.Equal(t, 1, proc.calls)
	require.Equal(t, []string{"transactional"}, proc.names)
}

func TestAnnotation_NoProcessorStrictRaises(t *testing.T) {
	ctx := newCtx(t, func(o *jexlcontext.Options) { o.Strict = true })
	_, err := run(t, "@transactional 21;", ctx)
	require.Error(t, err)
}

func TestAnnotation_NoProcessorLenientRunsInline(t *testing.T) {
	ctx := newCtx(t, func(o *jexlcontext.Options) { o.Strict = false })
	v, err := run(t, "@transactional 21;", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 21}, v)
}
