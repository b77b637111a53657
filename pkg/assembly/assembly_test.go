package assembly_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/refimport/internal/testhelper"
	"github.com/agentstation/refimport/pkg/assembly"
	"github.com/agentstation/refimport/pkg/errors"
)

func TestInspect(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		data    []byte
		status  assembly.Status
		errKind error
	}{
		{"managed pe32", testhelper.ManagedAssembly(), assembly.StatusValid, nil},
		{"managed pe32plus", testhelper.ManagedAssembly64(), assembly.StatusValid, nil},
		{"native library", testhelper.NativeLibrary(), assembly.StatusInvalid, assembly.ErrNoCLIHeader},
		{"corrupt metadata", testhelper.CorruptMetadata(), assembly.StatusInvalid, assembly.ErrBadMetadata},
		{"plain text", testhelper.PlainText(), assembly.StatusInvalid, assembly.ErrNotPE},
		{"empty file", nil, assembly.StatusInvalid, assembly.ErrNotPE},
		{
			"short cli header",
			testhelper.BuildPE(testhelper.PEImage{Managed: true, CorHeaderSize: 8}),
			assembly.StatusInvalid,
			assembly.ErrBadCLIHeader,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := testhelper.WriteFile(t, dir, tc.name+".dll", tc.data)

			result := assembly.Inspect(path)
			assert.Equal(t, tc.status, result.Status)
			assert.Equal(t, path, result.Path)
			if tc.errKind == nil {
				assert.NoError(t, result.Err)
				assert.True(t, result.Valid())
				require.NotNil(t, result.Info)
				return
			}
			assert.ErrorIs(t, result.Err, tc.errKind)
			assert.False(t, result.Valid())
			assert.Nil(t, result.Info)
			assert.Contains(t, result.Message(), tc.name+".dll")
			assert.Contains(t, result.Message(), "not a managed assembly")
		})
	}
}

func TestInspectUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Missing.dll")

	result := assembly.Inspect(path)
	assert.Equal(t, assembly.StatusUnreadable, result.Status)
	assert.True(t, errors.IsIOError(result.Err))
	assert.Contains(t, result.Message(), "Missing.dll: unreadable")
}

func TestSniffInfo(t *testing.T) {
	t.Run("pe32", func(t *testing.T) {
		info, err := assembly.Sniff(bytes.NewReader(testhelper.ManagedAssembly()))
		require.NoError(t, err)
		assert.Equal(t, "v4.0.30319", info.RuntimeVersion)
		assert.Equal(t, "1.1", info.MetadataVersion)
		assert.Equal(t, "2.5", info.CLIHeaderVersion)
		assert.Equal(t, "i386", info.Machine)
		assert.False(t, info.PE32Plus)
		assert.True(t, info.ILOnly)
	})

	t.Run("pe32plus", func(t *testing.T) {
		info, err := assembly.Sniff(bytes.NewReader(testhelper.ManagedAssembly64()))
		require.NoError(t, err)
		assert.Equal(t, "amd64", info.Machine)
		assert.True(t, info.PE32Plus)
	})

	t.Run("custom runtime version", func(t *testing.T) {
		img := testhelper.BuildPE(testhelper.PEImage{Managed: true, RuntimeVersion: "v2.0.50727"})
		info, err := assembly.Sniff(bytes.NewReader(img))
		require.NoError(t, err)
		assert.Equal(t, "v2.0.50727", info.RuntimeVersion)
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "valid", assembly.StatusValid.String())
	assert.Equal(t, "invalid", assembly.StatusInvalid.String())
	assert.Equal(t, "unreadable", assembly.StatusUnreadable.String())
	assert.Equal(t, "unknown", assembly.Status(42).String())
}

func TestValidatorFunc(t *testing.T) {
	var calls []string
	v := assembly.ValidatorFunc(func(_ context.Context, path string) assembly.Result {
		calls = append(calls, path)
		return assembly.Result{Path: path, Status: assembly.StatusValid}
	})

	result := v.Validate(context.Background(), "Foo.dll")
	assert.True(t, result.Valid())
	assert.Equal(t, []string{"Foo.dll"}, calls)
	assert.Empty(t, result.Reason())
}

func TestDefaultValidator(t *testing.T) {
	dir := t.TempDir()
	good := testhelper.WriteFile(t, dir, "Good.dll", testhelper.ManagedAssembly())
	bad := testhelper.WriteFile(t, dir, "Bad.dll", testhelper.PlainText())

	assert.True(t, assembly.DefaultValidator.Validate(context.Background(), good).Valid())
	assert.False(t, assembly.DefaultValidator.Validate(context.Background(), bad).Valid())
}
