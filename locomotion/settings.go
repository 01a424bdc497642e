package locomotion

import "github.com/milk9111/locomotion/anim"

// Settings are the tunables of a locomotion instance.
type Settings struct {
	LocomotionDistanceCurve string `yaml:"locomotion_distance_curve"`
	JumpDistanceCurve       string `yaml:"jump_distance_curve"`

	CardinalDirectionDeadZone float64 `yaml:"cardinal_direction_dead_zone"`

	StrideWarpingBlendInStartOffset    float64 `yaml:"stride_warping_blend_in_start_offset"`
	StrideWarpingBlendInDurationScaled float64 `yaml:"stride_warping_blend_in_duration_scaled"`
	StrideWarpingCycleInterpSpeed      float64 `yaml:"stride_warping_cycle_interp_speed"`

	PlayRateClampCycle        anim.PlayRateClamp `yaml:"play_rate_clamp_cycle"`
	PlayRateClampStartsPivots anim.PlayRateClamp `yaml:"play_rate_clamp_starts_pivots"`

	// RootYawOffsetClamp bounds the root yaw offset in degrees. Equal bounds
	// leave the offset unclamped.
	RootYawOffsetClamp  AngleRange `yaml:"root_yaw_offset_clamp"`
	RootYawOffsetSpring Spring     `yaml:"root_yaw_offset_spring"`

	// PivotGraceTime is how long after entering a pivot the clip may still be
	// re-selected when the acceleration direction changes.
	PivotGraceTime float64 `yaml:"pivot_grace_time"`
	// StridePlayRateFloor is the lower play rate bound when a start begins or
	// a pivot resumes moving, before the stride-warp alpha ramps it up to the
	// normal clamp.
	StridePlayRateFloor float64 `yaml:"stride_play_rate_floor"`

	LeanAngleScale float64 `yaml:"lean_angle_scale"`

	GroundTraceDistance float64 `yaml:"ground_trace_distance"`

	IdleBreakMinDelay   int `yaml:"idle_break_min_delay"`
	IdleBreakDelayRange int `yaml:"idle_break_delay_range"`

	LandRecoveryFallTime float64 `yaml:"land_recovery_fall_time"`
	LandRecoveryMinAlpha float64 `yaml:"land_recovery_min_alpha"`
}

type AngleRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

const (
	TurnYawWeightCurve    = "TurnYawWeight"
	RemainingTurnYawCurve = "RemainingTurnYaw"
)

func DefaultSettings() Settings {
	return Settings{
		LocomotionDistanceCurve:            "Distance",
		JumpDistanceCurve:                  "GroundDistance",
		CardinalDirectionDeadZone:          10,
		StrideWarpingBlendInStartOffset:    0.15,
		StrideWarpingBlendInDurationScaled: 0.2,
		StrideWarpingCycleInterpSpeed:      10,
		PlayRateClampCycle:                 anim.PlayRateClamp{Min: 0.8, Max: 1.2},
		PlayRateClampStartsPivots:          anim.PlayRateClamp{Min: 0.6, Max: 5.0},
		RootYawOffsetClamp:                 AngleRange{Min: -120, Max: 100},
		RootYawOffsetSpring: Spring{
			Stiffness:            80,
			DampingRatio:         1,
			Mass:                 0.5,
			TargetVelocityAmount: 1,
		},
		PivotGraceTime:       0.2,
		StridePlayRateFloor:  0.2,
		LeanAngleScale:       0.0375,
		GroundTraceDistance:  100000,
		IdleBreakMinDelay:    6,
		IdleBreakDelayRange:  10,
		LandRecoveryFallTime: 0.4,
		LandRecoveryMinAlpha: 0.1,
	}
}
