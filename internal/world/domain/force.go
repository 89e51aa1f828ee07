package domain

// Force is a group of units traveling along a path between towers.
type Force struct {
	// path always has at least two towers while the force is in flight.
	path Path
	// PathProgress advances towards ProgressRequired each tick.
	PathProgress uint8
	// Fuel is decremented per road segment. A force expires at zero.
	Fuel     uint8
	PlayerId PlayerId
	Units    Units
}

// ForceFuel is how many road segments a force can travel before expiring.
const ForceFuel = 150

// NewForce builds a force owned by a player. Ownerless forces (shrinking
// border zombies) use NewZombieForce so they can kill but never capture.
func NewForce(playerId PlayerId, units Units, path Path) Force {
	return Force{
		path:     path,
		Fuel:     ForceFuel,
		PlayerId: playerId,
		Units:    units,
	}
}

func NewZombieForce(units Units, path Path) Force {
	return NewForce(NoPlayer, units, path)
}

// CurrentSource is the tower the force last departed.
func (f *Force) CurrentSource() TowerId {
	return f.path.ComingFrom()
}

// CurrentDestination is the tower the force travels towards.
func (f *Force) CurrentDestination() TowerId {
	return f.path.GoingTo()
}

func (f *Force) Path() Path {
	return f.path
}

// InterpolatedPosition is the world position of the force, extrapolated
// by the time since the last tick for smooth client rendering.
func (f *Force) InterpolatedPosition(timeSinceTick float32) Vec2 {
	source := f.CurrentSource().Vec2()
	destination := f.CurrentDestination().Vec2()
	t := (float32(f.PathProgress) +
		timeSinceTick*(1.0/float32(TickPeriodSecs))*float32(f.progressPerTick())) /
		float32(f.ProgressRequired())
	if t > 1 {
		t = 1
	}
	return source.Lerp(destination, t)
}

// Halt truncates the path so the force arrives at its current destination
// but goes no further.
func (f *Force) Halt() {
	f.path = f.path.truncated()
}

// Halted is a copy of the force with a truncated path. Outbound mirrors
// only need the current segment.
func (f *Force) Halted() Force {
	return Force{
		path:         f.path.truncated(),
		PathProgress: f.PathProgress,
		Fuel:         f.Fuel,
		PlayerId:     f.PlayerId,
		Units:        f.Units,
	}
}

// TryMoveOn decides whether an arrived force keeps moving. Forces at the
// end of their path, or passing an ally's tower, follow the tower's
// supply line. Returns false if the force stops here.
func (f *Force) TryMoveOn(towerType TowerType, towerUnits *Units, ally PlayerId, supplyLine *Path) bool {
	if f.path.isSpent() || ally.IsSome() {
		if supplyLine == nil || towerType.RangedDistance() != 0 || !f.Units.isMany() {
			return false
		}
		f.path = supplyLine.Clone()
		if ally.IsSome() {
			f.PlayerId = ally
		} else {
			if towerType == TowerProjector {
				maxShield := TowerProjector.RawUnitCapacity(UnitShield)
				existing := f.Units.Available(UnitShield)
				if existing < maxShield {
					transferred := towerUnits.Subtract(UnitShield, maxShield-existing)
					f.Units.Add(UnitShield, transferred)
				}
			}
			if f.Units.Contains(UnitChopper) {
				f.pickUpPassengers(towerUnits)
			}
		}
	}

	f.PathProgress = 0
	if f.Units.isMany() {
		f.Fuel--
	}
	return true
}

// pickUpPassengers lets choppers grab ground units from the tower as long
// as that doesn't slow the force down.
func (f *Force) pickUpPassengers(towerUnits *Units) {
	initialSpeed := f.Speed()
	for _, transfer := range [...]Unit{UnitSoldier, UnitTank} {
		if transfer.SpeedAt(0, false) >= initialSpeed {
			// Don't balloon the force.
			break
		}
		for towerUnits.Contains(transfer) {
			if f.Units.Add(transfer, 1) == 0 {
				break
			}
			if f.Speed() < initialSpeed {
				// Over capacity, undo.
				f.Units.Subtract(transfer, 1)
				break
			}
			towerUnits.Subtract(transfer, 1)
		}
	}
}

func (f *Force) progressPerTick() uint8 {
	switch f.Speed() {
	case SpeedSlow:
		return 1
	case SpeedNormal:
		return 2
	case SpeedFast:
		return 3
	default:
		return 0
	}
}

// ProgressRequired is the PathProgress needed to finish the current road.
func (f *Force) ProgressRequired() uint8 {
	distance := f.CurrentSource().Distance(f.CurrentDestination())
	// The constant controls overall travel speed; 180 is about 40%
	// faster than the original 255.
	progress := distance * 180 / MaxRoadLength / 2
	if progress > 255 {
		progress = 255
	}
	return uint8(progress)
}

// Speed is the movement class of the whole force. Choppers carry up to
// four weight each; a force whose slow units fit in the choppers moves at
// normal speed, and one whose entire weight fits moves fast.
func (f *Force) Speed() Speed {
	choppers := f.Units.Available(UnitChopper)
	if choppers != 0 {
		var weight, slowWeight uint32
		f.Units.ForEach(func(u Unit, c uint) {
			w := uint32(u.Weight()) * uint32(c)
			weight += w
			if u.SpeedAt(0, false) < SpeedNormal {
				slowWeight += w
			}
		})
		maxWeight := uint32(choppers) * 4
		switch {
		case weight <= maxWeight:
			return SpeedFast
		case slowWeight <= maxWeight:
			return SpeedNormal
		default:
			return SpeedSlow
		}
	}

	speed := SpeedFast
	found := false
	f.Units.ForEach(func(u Unit, _ uint) {
		found = true
		if s := u.SpeedAt(0, false); s < speed {
			speed = s
		}
	})
	if !found {
		// Empty forces are culled elsewhere.
		return SpeedFast
	}
	return speed
}

// rawTick advances the force and pops the road when it arrives. Returns
// true when the force is arriving.
func (f *Force) rawTick() bool {
	progress := uint16(f.PathProgress) + uint16(f.progressPerTick())
	if progress > 255 {
		progress = 255
	}
	f.PathProgress = uint8(progress)

	if f.PathProgress >= f.ProgressRequired() {
		f.path.pop()
		return true
	}
	return false
}

// tick advances an inbound force by one tick.
func (f *Force) tick() bool {
	return f.rawTick()
}
