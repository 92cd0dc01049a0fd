package camera

import "testing"

func snappy() *OrbitCamera {
	c := NewOrbitCamera(home())
	c.Damping = 0
	return c
}

func TestControlsOrbit(t *testing.T) {
	cam := snappy()
	ctl := NewControls(cam)

	ctl.Move(10, 10)
	if cam.Goal() != cam.Home {
		t.Fatal("move without a gesture changed the camera")
	}

	ctl.Press(GestureOrbit, 100, 100, true)
	ctl.Move(80, 100)
	if cam.Goal().Yaw <= cam.Home.Yaw {
		t.Errorf("dragging left should increase yaw, got %v", cam.Goal().Yaw)
	}

	ctl.Release(GestureOrbit)
	before := cam.Goal()
	ctl.Move(0, 0)
	if cam.Goal() != before {
		t.Error("camera moved after release")
	}
}

func TestControlsPan(t *testing.T) {
	cam := snappy()
	ctl := NewControls(cam)

	ctl.Press(GesturePan, 0, 0, true)
	ctl.Move(0, 50)
	if cam.Goal().Target.Y <= cam.Home.Target.Y {
		t.Errorf("target Y = %v, want above %v", cam.Goal().Target.Y, cam.Home.Target.Y)
	}
	if cam.Goal().Yaw != cam.Home.Yaw {
		t.Error("pan changed yaw")
	}
}

func TestControlsIgnorePressOutsideView(t *testing.T) {
	cam := snappy()
	ctl := NewControls(cam)

	ctl.Press(GestureOrbit, 0, 0, false)
	ctl.Move(200, 200)
	if ctl.Active() != GestureNone || cam.Goal() != cam.Home {
		t.Error("press over the panel started a drag")
	}
}

func TestControlsSecondButtonDoesNotHijack(t *testing.T) {
	ctl := NewControls(snappy())
	ctl.Press(GestureOrbit, 0, 0, true)
	ctl.Press(GesturePan, 0, 0, true)
	if ctl.Active() != GestureOrbit {
		t.Fatalf("Active() = %v, want orbit", ctl.Active())
	}
	ctl.Release(GesturePan)
	if ctl.Active() != GestureOrbit {
		t.Error("releasing the other button ended the orbit")
	}
	ctl.Cancel()
	if ctl.Active() != GestureNone {
		t.Error("Cancel kept the gesture")
	}
}

func TestControlsWheel(t *testing.T) {
	cam := snappy()
	ctl := NewControls(cam)

	ctl.Wheel(1, false)
	if cam.Goal().Distance != cam.Home.Distance {
		t.Error("wheel over the panel zoomed")
	}
	ctl.Wheel(1, true)
	if cam.Goal().Distance >= cam.Home.Distance {
		t.Errorf("distance = %v, want below %v", cam.Goal().Distance, cam.Home.Distance)
	}
}
