package script

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/locomotion"
)

func vec2(v mgl64.Vec3) []any { return []any{v[0], v[1]} }

// SignalValues flattens a signals snapshot into snake_case keys. Vectors
// become [x, y] arrays and enums their string names.
func SignalValues(sig locomotion.Signals) map[string]any {
	k := sig.Kinematics
	return map[string]any{
		"local_velocity_2d":                          vec2(k.LocalVelocity2D),
		"local_acceleration_2d":                      vec2(k.LocalAcceleration2D),
		"displacement_since_last_update":             k.DisplacementSinceLastUpdate,
		"displacement_speed":                         k.DisplacementSpeed,
		"yaw_delta_since_last_update":                k.YawDeltaSinceLastUpdate,
		"additive_lean_angle":                        k.AdditiveLeanAngle,
		"local_velocity_direction_angle":             k.LocalVelocityDirectionAngle,
		"local_velocity_direction_angle_with_offset": k.LocalVelocityDirectionAngleWithOffset,
		"local_velocity_direction":                   k.LocalVelocityDirection.String(),
		"local_velocity_direction_no_offset":         k.LocalVelocityDirectionNoOffset.String(),
		"pivot_direction_2d":                         vec2(k.PivotDirection2D),
		"cardinal_direction_from_acceleration":       k.CardinalDirectionFromAcceleration.String(),
		"has_velocity":                               k.HasVelocity,
		"has_acceleration":                           k.HasAcceleration,
		"root_yaw_offset":                            sig.RootYawOffset,
		"root_yaw_offset_mode":                       sig.RootYawOffsetMode.String(),
		"turn_yaw_curve_value":                       sig.TurnYawCurveValue,
		"is_on_ground":                               sig.IsOnGround,
		"is_jumping":                                 sig.IsJumping,
		"is_falling":                                 sig.IsFalling,
		"time_to_jump_apex":                          sig.TimeToJumpApex,
		"time_falling":                               sig.TimeFalling,
		"ground_distance":                            sig.GroundDistance,
		"is_running_into_wall":                       sig.IsRunningIntoWall,
		"is_any_montage":                             sig.IsAnyMontage,
		"start_direction":                            sig.StartDirection.String(),
		"pivot_initial_direction":                    sig.PivotInitialDirection.String(),
		"pivot_starting_acceleration":                vec2(sig.PivotStartingAcceleration),
		"last_pivot_time":                            sig.LastPivotTime,
		"stride_warping_start_alpha":                 sig.StrideWarpingStartAlpha,
		"stride_warping_cycle_alpha":                 sig.StrideWarpingCycleAlpha,
		"stride_warping_pivot_alpha":                 sig.StrideWarpingPivotAlpha,
		"land_recovery_alpha":                        sig.LandRecoveryAlpha,
		"time_until_next_idle_break":                 sig.TimeUntilNextIdleBreak,
		"turn_in_place_anim_time":                    sig.TurnInPlaceAnimTime,
		"should_distance_match_stop":                 sig.ShouldDistanceMatchStop,
		"predicted_stop_distance":                    sig.PredictedStopDistance,
		"can_play_idle_break":                        sig.CanPlayIdleBreak,
		"moving_perpendicular":                       sig.MovingPerpendicular,
	}
}
