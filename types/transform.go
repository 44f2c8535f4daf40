package types

// Transform describes a decomposed translation/rotation/scale triplet.
type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       Vec3
}

// Create an identity transform.
func TransformIdent() Transform {
	return Transform{
		Rotation: QuatIdent(),
		Scale:    Vec3{1, 1, 1},
	}
}

// Decompose a 4x4 matrix into its translation/rotation/scale components.
// Shear and negative scale are not representable and get folded into the
// nearest representable transform.
func TransformFromMat4(m Mat4) Transform {
	return Transform{
		Translation: m.Translation(),
		Rotation:    m.Rotation(),
		Scale:       m.ScalePart(),
	}
}

// Compose the transform back into a 4x4 matrix applying scale, then
// rotation, then translation.
func (t Transform) Mat4() Mat4 {
	m := t.Rotation.Mat4()
	for c := 0; c < 3; c++ {
		s := t.Scale[c]
		m[c*4+0] *= s
		m[c*4+1] *= s
		m[c*4+2] *= s
	}
	m[12], m[13], m[14] = t.Translation[0], t.Translation[1], t.Translation[2]
	return m
}

// Pack the transform into the 10 float layout used by scene containers:
// translation, rotation quaternion as (x, y, z, w), scale.
func (t Transform) Floats() [10]float32 {
	return [10]float32{
		t.Translation[0], t.Translation[1], t.Translation[2],
		t.Rotation.V[0], t.Rotation.V[1], t.Rotation.V[2], t.Rotation.W,
		t.Scale[0], t.Scale[1], t.Scale[2],
	}
}
