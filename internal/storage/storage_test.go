package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/voxelwalk/internal/world"
	"github.com/annel0/voxelwalk/internal/world/block"
	// Импортируем реализации блоков для регистрации в init()
	_ "github.com/annel0/voxelwalk/internal/world/block/implementations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVolume(t *testing.T, seed int64) *world.Volume {
	t.Helper()
	v, err := world.NewWorldGenerator(seed).Generate()
	require.NoError(t, err)
	return v
}

func assertSameVolume(t *testing.T, expected, actual *world.Volume) {
	t.Helper()
	require.Equal(t, expected.Size(), actual.Size())
	assert.Equal(t, expected.Blocks(), actual.Blocks())
	size := expected.Size()
	for x := 0; x < size.X; x++ {
		for z := 0; z < size.Z; z++ {
			assert.Equal(t, expected.TerrainHeight(x, z), actual.TerrainHeight(x, z))
		}
	}
}

func setupTestStorage(t *testing.T) *VolumeStorage {
	t.Helper()
	vs, err := NewMemoryVolumeStorage()
	require.NoError(t, err, "Не удалось создать хранилище")
	t.Cleanup(func() { vs.Close() })
	return vs
}

func TestVolumeStorage_SaveAndLoad(t *testing.T) {
	vs := setupTestStorage(t)
	v := testVolume(t, 99)

	meta, err := vs.SaveVolume("hills", v)
	require.NoError(t, err)
	assert.Equal(t, "hills", meta.Name)
	assert.Equal(t, v.SolidCount(), meta.Solid)
	assert.Greater(t, meta.Bytes, 0)

	loaded, err := vs.LoadVolume("hills")
	require.NoError(t, err)
	assertSameVolume(t, v, loaded)
}

func TestVolumeStorage_Overwrite(t *testing.T) {
	vs := setupTestStorage(t)

	b := world.NewChunkBuilder()
	b.SetSolid(1, 1, 1)
	_, err := vs.SaveVolume("v", b.Build())
	require.NoError(t, err)

	b.FillLayer(0, block.SandBlockID)
	_, err = vs.SaveVolume("v", b.Build())
	require.NoError(t, err)

	loaded, err := vs.LoadVolume("v")
	require.NoError(t, err)
	assert.Equal(t, block.SandBlockID, loaded.Block(5, 0, 5))
	assert.Equal(t, 16*16+1, loaded.SolidCount())
}

func TestVolumeStorage_NotFoundAndDelete(t *testing.T) {
	vs := setupTestStorage(t)

	_, err := vs.LoadVolume("missing")
	assert.ErrorIs(t, err, ErrVolumeNotFound)

	_, err = vs.SaveVolume("a", testVolume(t, 1))
	require.NoError(t, err)
	require.NoError(t, vs.DeleteVolume("a"))

	_, err = vs.LoadVolume("a")
	assert.ErrorIs(t, err, ErrVolumeNotFound)
	assert.NoError(t, vs.DeleteVolume("a"), "Повторное удаление не ошибка")
}

func TestVolumeStorage_List(t *testing.T) {
	vs := setupTestStorage(t)

	for _, name := range []string{"b", "a", "c"} {
		_, err := vs.SaveVolume(name, testVolume(t, 5))
		require.NoError(t, err)
	}

	metas, err := vs.ListVolumes()
	require.NoError(t, err)
	require.Len(t, metas, 3)
	assert.Equal(t, "a", metas[0].Name)
	assert.Equal(t, "b", metas[1].Name)
	assert.Equal(t, "c", metas[2].Name)
}

func TestVolumeStorage_InvalidName(t *testing.T) {
	vs := setupTestStorage(t)
	_, err := vs.SaveVolume("", testVolume(t, 1))
	assert.Error(t, err)
	_, err = vs.SaveVolume("a:b", testVolume(t, 1))
	assert.Error(t, err)
}

func TestVolumeStorage_Closed(t *testing.T) {
	vs, err := NewMemoryVolumeStorage()
	require.NoError(t, err)
	require.NoError(t, vs.Close())
	require.NoError(t, vs.Close(), "Повторное закрытие безопасно")

	_, err = vs.LoadVolume("x")
	assert.ErrorIs(t, err, ErrStorageClosed)
	_, err = vs.SaveVolume("x", testVolume(t, 1))
	assert.ErrorIs(t, err, ErrStorageClosed)
	_, err = vs.ListVolumes()
	assert.ErrorIs(t, err, ErrStorageClosed)
}

func TestVolumeStorage_OnDisk(t *testing.T) {
	dir := t.TempDir()
	v := testVolume(t, 3)

	vs, err := NewVolumeStorage(dir)
	require.NoError(t, err)
	_, err = vs.SaveVolume("persisted", v)
	require.NoError(t, err)
	require.NoError(t, vs.Close())

	// Данные переживают переоткрытие
	vs, err = NewVolumeStorage(dir)
	require.NoError(t, err)
	defer vs.Close()

	loaded, err := vs.LoadVolume("persisted")
	require.NoError(t, err)
	assertSameVolume(t, v, loaded)
}

func TestVolumeFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hills.vxw")
	v := testVolume(t, 2024)

	require.NoError(t, WriteVolumeFile(path, v, "perlin:2024"))

	header, err := ReadVolumeHeader(path)
	require.NoError(t, err)
	assert.Equal(t, SnapshotFormat, header.Format)
	assert.Equal(t, v.Size(), header.Size)
	assert.Equal(t, "perlin:2024", header.Source)

	loaded, header2, err := ReadVolumeFile(path)
	require.NoError(t, err)
	assert.Equal(t, header.Solid, header2.Solid)
	assertSameVolume(t, v, loaded)
}

func TestVolumeFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := ReadVolumeFile(filepath.Join(dir, "missing.vxw"))
	assert.Error(t, err)

	// Не zstd
	garbage := filepath.Join(dir, "garbage.vxw")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not zstd"), 0o644))
	_, _, err = ReadVolumeFile(garbage)
	assert.Error(t, err)
}

func BenchmarkVolumeStorage_SaveLoad(b *testing.B) {
	vs, err := NewMemoryVolumeStorage()
	require.NoError(b, err)
	defer vs.Close()
	v, err := world.NewWorldGenerator(1).Generate()
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := vs.SaveVolume("bench", v); err != nil {
			b.Fatal(err)
		}
		if _, err := vs.LoadVolume("bench"); err != nil {
			b.Fatal(err)
		}
	}
}
