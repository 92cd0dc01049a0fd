package camera

// Gesture is the camera motion a held mouse button drives.
type Gesture uint8

const (
	GestureNone Gesture = iota
	GestureOrbit
	GesturePan
)

// Controls turns pointer input inside the view into camera motion. A drag
// that starts outside the view, over the panel, is ignored until release.
type Controls struct {
	cam     *OrbitCamera
	gesture Gesture
	lastX   float32
	lastY   float32
}

// NewControls binds controls to cam.
func NewControls(cam *OrbitCamera) *Controls {
	return &Controls{cam: cam}
}

// Active returns the gesture in progress.
func (c *Controls) Active() Gesture { return c.gesture }

// Press starts gesture g at (x, y). inView reports whether the press landed
// on the product view.
func (c *Controls) Press(g Gesture, x, y float32, inView bool) {
	if !inView || c.gesture != GestureNone {
		return
	}
	c.gesture = g
	c.lastX, c.lastY = x, y
}

// Release ends gesture g if it is the one in progress.
func (c *Controls) Release(g Gesture) {
	if c.gesture == g {
		c.gesture = GestureNone
	}
}

// Move feeds a cursor position. It moves the camera only while a gesture
// is in progress.
func (c *Controls) Move(x, y float32) {
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	switch c.gesture {
	case GestureOrbit:
		c.cam.HandleDrag(dx, dy)
	case GesturePan:
		c.cam.HandlePan(dx, dy)
	}
}

// Wheel zooms by wheel steps when the cursor is over the view.
func (c *Controls) Wheel(steps float32, inView bool) {
	if inView && steps != 0 {
		c.cam.HandleZoom(steps)
	}
}

// Cancel drops any gesture in progress.
func (c *Controls) Cancel() {
	c.gesture = GestureNone
}
