package counter

// Display receives one-way update notifications from the controller. Calls are
// made from the controller loop and must not block on the controller.
type Display interface {
	// SetNumber shows value. When emphasize is set the display briefly
	// highlights it and reverts on its own.
	SetNumber(value int, emphasize bool)
	SetCycleCount(value int)
	SetStatus(status Status)
}

// NopDisplay discards every update.
type NopDisplay struct{}

func (NopDisplay) SetNumber(int, bool) {}
func (NopDisplay) SetCycleCount(int)   {}
func (NopDisplay) SetStatus(Status)    {}
