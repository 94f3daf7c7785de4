package visualization

import "testing"

func TestRenderOptionBuildersCopy(t *testing.T) {
	base := DefaultRenderOption()
	mod := base.WithPointSize(10).WithBackground(0, 0, 0).WithLight(false)
	if base.PointSize != 5 || base.BackgroundColor != [3]float32{1, 1, 1} || !base.LightOn {
		t.Error("builders must not mutate the receiver")
	}
	if mod.PointSize != 10 || mod.BackgroundColor != [3]float32{0, 0, 0} || mod.LightOn {
		t.Errorf("modified copy wrong: %+v", mod)
	}
}

func TestRenderOptionPointSizeClamp(t *testing.T) {
	if got := DefaultRenderOption().WithPointSize(0).PointSize; got != minPointSize {
		t.Errorf("point size = %v, want clamped to %v", got, float32(minPointSize))
	}
	if got := DefaultRenderOption().WithPointSize(1e6).PointSize; got != maxPointSize {
		t.Errorf("point size = %v, want clamped to %v", got, float32(maxPointSize))
	}
}

func TestRenderOverridesCompose(t *testing.T) {
	overrides := []RenderOverride{
		OverridePointSize(2),
		OverrideLineWidth(7),
		OverridePointSize(3), // later overrides win
	}
	opt := DefaultRenderOption()
	for _, ov := range overrides {
		opt = ov(opt)
	}
	if opt.PointSize != 3 || opt.LineWidth != 7 {
		t.Errorf("composed option = %+v", opt)
	}
}

func TestMeshShadeOverride(t *testing.T) {
	opt := OverrideMeshShade(MeshShadeNone)(DefaultRenderOption())
	if opt.MeshShade != MeshShadeNone {
		t.Errorf("shade = %v", opt.MeshShade)
	}
}
