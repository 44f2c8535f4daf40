package store

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/aurora/render"
	"github.com/achilleasa/aurora/types"
)

func TestContainerRoundTrip(t *testing.T) {
	texPath := writeTestTexture(t)
	st := buildTestStore(t, texPath)
	outPath := filepath.Join(t.TempDir(), "orbit.arsb")

	if err := st.Export(outPath, ExportImagesLossless); err != nil {
		t.Fatal(err)
	}

	container, err := ReadContainer(outPath)
	if err != nil {
		t.Fatal(err)
	}

	if container.Name != "orbit" || container.Width != 320 || container.Height != 240 {
		t.Fatalf("expected scene info to round-trip; got %q %dx%d", container.Name, container.Width, container.Height)
	}
	if container.World == nil || container.World.Strength != 2 {
		t.Fatal("expected world record to round-trip")
	}
	if container.ActiveCamera != render.ObjectKey("cam") {
		t.Fatalf("expected active camera to round-trip; got %q", container.ActiveCamera)
	}
	if len(container.Shapes) != 2 || len(container.Lights) != 1 || len(container.Cameras) != 1 {
		t.Fatalf("expected 2 shapes, 1 light, 1 camera; got %d, %d, %d",
			len(container.Shapes), len(container.Lights), len(container.Cameras))
	}

	ship := container.Shapes[0]
	if ship.Material == nil || ship.Material.Texture != texPath {
		t.Fatal("expected the ship material to round-trip")
	}
	if ship.Group != "Root.ship" {
		t.Fatalf("expected ship group Root.ship; got %q", ship.Group)
	}

	group, exists := container.Group("Root.ship")
	if !exists || group.Parent != "Root" {
		t.Fatal("expected the ship group to round-trip with its parent link")
	}

	tracks := container.GroupAnimations("Root.ship")
	if len(tracks) != 1 {
		t.Fatalf("expected 1 animation track on the ship group; got %d", len(tracks))
	}
	if tracks[0].MovementType != MovementTranslation || tracks[0].TransformValues[3] != 5 {
		t.Fatal("expected the translation track payload to round-trip")
	}

	if container.CustomInts["frames.fps"] != 24 || container.CustomFloats["frames.start"] != 1 {
		t.Fatal("expected custom parameters to round-trip")
	}

	// Both shapes reference the same texture; it must be embedded once.
	if len(container.Images) != 1 {
		t.Fatalf("expected 1 embedded image; got %d", len(container.Images))
	}
	img := container.Images[0]
	if img.External || img.Lossy {
		t.Fatal("expected a lossless embedded image")
	}
	original, err := os.ReadFile(texPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(container.ImageData[img.Name], original) {
		t.Fatal("expected the embedded image bytes to match the source file")
	}
}

func TestExportWithoutImageFlagsOmitsImages(t *testing.T) {
	st := buildTestStore(t, writeTestTexture(t))
	outPath := filepath.Join(t.TempDir(), "orbit.arsb")

	if err := st.Export(outPath, 0); err != nil {
		t.Fatal(err)
	}

	container, err := ReadContainer(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(container.Images) != 0 || len(container.ImageData) != 0 {
		t.Fatalf("expected no images to travel with the container; got %d records", len(container.Images))
	}
}

func TestExportExternalImages(t *testing.T) {
	texPath := writeTestTexture(t)
	st := buildTestStore(t, texPath)
	outPath := filepath.Join(t.TempDir(), "orbit.arsb")

	if err := st.Export(outPath, ExportImagesExternal); err != nil {
		t.Fatal(err)
	}

	container, err := ReadContainer(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(container.Images) != 1 || !container.Images[0].External {
		t.Fatal("expected one external image record")
	}
	if len(container.ImageData) != 0 {
		t.Fatal("expected external images to stay out of the container")
	}

	copied := filepath.Join(strings.TrimSuffix(outPath, ".arsb")+"_images", container.Images[0].Name)
	original, err := os.ReadFile(texPath)
	if err != nil {
		t.Fatal(err)
	}
	copiedData, err := os.ReadFile(copied)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(copiedData, original) {
		t.Fatal("expected the external image copy to match the source file")
	}
}

func TestExportLossyImages(t *testing.T) {
	st := buildTestStore(t, writeTestTexture(t))
	outPath := filepath.Join(t.TempDir(), "orbit.arsb")

	if err := st.Export(outPath, ExportImagesLossy); err != nil {
		t.Fatal(err)
	}

	container, err := ReadContainer(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(container.Images) != 1 {
		t.Fatalf("expected 1 embedded image; got %d", len(container.Images))
	}

	img := container.Images[0]
	if !img.Lossy || !strings.HasSuffix(img.Name, ".jpg") {
		t.Fatalf("expected a recompressed jpg entry; got %q", img.Name)
	}
	data := container.ImageData[img.Name]
	if len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
		t.Fatal("expected the embedded image to carry a jpeg payload")
	}
}

func TestExportRejectsBrokenGroupForest(t *testing.T) {
	st := NewSceneStore()
	if err := st.AssignParentGroup("a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := st.AssignParentGroup("b", "a"); err != nil {
		t.Fatal(err)
	}

	err := st.Export(filepath.Join(t.TempDir(), "broken.arsb"), 0)
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected export to reject group cycles; got %v", err)
	}
}

func TestReadContainerErrors(t *testing.T) {
	tmpDir := t.TempDir()

	specs := []struct {
		descr    string
		path     func() string
		expError error
		expMsg   string
	}{
		{
			descr: "unsupported format version",
			path: func() string {
				path := filepath.Join(tmpDir, "version.arsb")
				writeRawContainer(t, path, &Container{FormatVersion: 99})
				return path
			},
			expError: ErrUnsupportedVersion,
		},
		{
			descr: "animation track referencing an unknown group",
			path: func() string {
				anim, err := NewAnimation("ghost", MovementScale, []float32{0}, []float32{1, 1, 1})
				if err != nil {
					t.Fatal(err)
				}
				path := filepath.Join(tmpDir, "ghost.arsb")
				writeRawContainer(t, path, &Container{
					FormatVersion: containerFormatVersion,
					Animations:    []*Animation{anim},
				})
				return path
			},
			expError: ErrUnknownGroup,
		},
		{
			descr: "shape referencing an unknown group",
			path: func() string {
				path := filepath.Join(tmpDir, "shape.arsb")
				writeRawContainer(t, path, &Container{
					FormatVersion: containerFormatVersion,
					Shapes:        []ShapeRecord{{Key: "ship", Group: "ghost"}},
				})
				return path
			},
			expError: ErrUnknownGroup,
		},
		{
			descr: "container without a scene data entry",
			path: func() string {
				path := filepath.Join(tmpDir, "empty.arsb")
				f, err := os.Create(path)
				if err != nil {
					t.Fatal(err)
				}
				zw := zip.NewWriter(f)
				zw.Close()
				f.Close()
				return path
			},
			expMsg: "no scene data entry",
		},
		{
			descr: "file that is not a container",
			path: func() string {
				path := filepath.Join(tmpDir, "garbage.arsb")
				if err := os.WriteFile(path, []byte("not a container"), 0644); err != nil {
					t.Fatal(err)
				}
				return path
			},
			expMsg: "not a valid zip file",
		},
	}

	for specIndex, spec := range specs {
		_, err := ReadContainer(spec.path())
		if err == nil {
			t.Fatalf("[spec %d] expected a read error for %s", specIndex, spec.descr)
		}
		if spec.expError != nil && !errors.Is(err, spec.expError) {
			t.Fatalf("[spec %d] expected error %v; got %v", specIndex, spec.expError, err)
		}
		if spec.expMsg != "" && !strings.Contains(err.Error(), spec.expMsg) {
			t.Fatalf("[spec %d] expected error to mention %q; got %v", specIndex, spec.expMsg, err)
		}
	}
}

// Assemble a store resembling a small synced scene: a textured ship with
// one instance, a grouped animation track, a sun light and a camera.
func buildTestStore(t *testing.T, texPath string) *SceneStore {
	t.Helper()

	st := NewSceneStore()
	st.SetSceneInfo("orbit", 320, 240)
	if err := st.SetWorld(types.Vec3{0.05, 0.05, 0.1}, 2); err != nil {
		t.Fatal(err)
	}

	ship, err := st.NewShape(render.ObjectKey("ship"), "ship")
	if err != nil {
		t.Fatal(err)
	}
	if err = ship.SetMaterial(render.Material{BaseColor: types.Vec3{0.8, 0.8, 0.8}, Texture: texPath}); err != nil {
		t.Fatal(err)
	}
	if err = ship.(render.GroupAssignable).AssignToGroup("Root.ship"); err != nil {
		t.Fatal(err)
	}
	if err = st.AssignParentGroup("Root.ship", "Root"); err != nil {
		t.Fatal(err)
	}

	inst, err := st.NewInstance(render.InstanceKey("ship", 0), "ship", ship)
	if err != nil {
		t.Fatal(err)
	}
	if err = inst.SetMaterial(render.Material{BaseColor: types.Vec3{0.8, 0.8, 0.8}, Texture: texPath}); err != nil {
		t.Fatal(err)
	}

	if _, err = st.NewLight(render.ObjectKey("sun"), "sun", render.DirectionalLight); err != nil {
		t.Fatal(err)
	}

	camera, err := st.NewCamera(render.ObjectKey("cam"), "cam")
	if err != nil {
		t.Fatal(err)
	}
	st.SetActiveCamera(camera.Key())

	anim, err := NewAnimation("Root.ship", MovementTranslation,
		[]float32{0, 0.5},
		[]float32{0, 0, 0, 5, 0, 0},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err = st.AddAnimation(anim); err != nil {
		t.Fatal(err)
	}

	st.SetCustomInt("frames.fps", 24)
	st.SetCustomFloat("frames.start", 1)
	return st
}

func writeTestTexture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hull.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 16)
	}
	if err = png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeRawContainer(t *testing.T, path string, container *Container) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	entry, err := zw.Create(sceneDataFile)
	if err != nil {
		t.Fatal(err)
	}
	if err = gob.NewEncoder(entry).Encode(container); err != nil {
		t.Fatal(err)
	}
}
