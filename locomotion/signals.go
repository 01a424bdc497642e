package locomotion

import "github.com/go-gl/mathgl/mgl64"

// Signals is a read-only snapshot of everything the animation graph may bind
// to as a blend input.
type Signals struct {
	Kinematics

	RootYawOffset     float64
	RootYawOffsetMode RootYawOffsetMode
	TurnYawCurveValue float64

	IsOnGround     bool
	IsJumping      bool
	IsFalling      bool
	TimeToJumpApex float64
	TimeFalling    float64
	GroundDistance float64

	IsRunningIntoWall bool
	IsAnyMontage      bool

	StartDirection            CardinalDirection
	PivotInitialDirection     CardinalDirection
	PivotStartingAcceleration mgl64.Vec3
	LastPivotTime             float64

	StrideWarpingStartAlpha float64
	StrideWarpingCycleAlpha float64
	StrideWarpingPivotAlpha float64
	LandRecoveryAlpha       float64

	TimeUntilNextIdleBreak float64
	TurnInPlaceAnimTime    float64

	ShouldDistanceMatchStop bool
	PredictedStopDistance   float64
	CanPlayIdleBreak        bool
	MovingPerpendicular     bool
}

func (in *Instance) Signals() Signals {
	return Signals{
		Kinematics:                in.kin,
		RootYawOffset:             in.turn.Offset(),
		RootYawOffsetMode:         in.turn.Mode(),
		TurnYawCurveValue:         in.turn.TurnYawCurveValue(),
		IsOnGround:                in.isOnGround,
		IsJumping:                 in.isJumping,
		IsFalling:                 in.isFalling,
		TimeToJumpApex:            in.timeToJumpApex,
		TimeFalling:               in.timeFalling,
		GroundDistance:            in.groundDistance,
		IsRunningIntoWall:         in.sample.IsRunningIntoWall,
		IsAnyMontage:              in.sample.IsAnyMontage,
		StartDirection:            in.startDirection,
		PivotInitialDirection:     in.pivotInitialDirection,
		PivotStartingAcceleration: in.pivotStartingAccel,
		LastPivotTime:             in.lastPivotTime,
		StrideWarpingStartAlpha:   in.strideWarpingStartAlpha,
		StrideWarpingCycleAlpha:   in.strideWarpingCycleAlpha,
		StrideWarpingPivotAlpha:   in.strideWarpingPivotAlpha,
		LandRecoveryAlpha:         in.landRecoveryAlpha,
		TimeUntilNextIdleBreak:    in.timeUntilNextIdleBreak,
		TurnInPlaceAnimTime:       in.turnInPlaceAnimTime,
		ShouldDistanceMatchStop:   in.ShouldDistanceMatchStop(),
		PredictedStopDistance:     in.PredictedStopDistance(),
		CanPlayIdleBreak:          in.CanPlayIdleBreak(),
		MovingPerpendicular:       in.IsMovingPerpendicularToInitialPivot(),
	}
}
