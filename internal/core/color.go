package core

// Color is the foreground role of a screen cell. The platform layer maps each
// role to a terminal color.
type Color uint8

const (
	ColorDefault   Color = iota
	ColorWall            // walls and board frame
	ColorFloor           // empty floor
	ColorGoal            // uncovered goal
	ColorBox             // box off goal
	ColorBoxOnGoal       // box resting on a goal
	ColorPlayer          // player, on floor or goal
	ColorText            // HUD labels
	ColorAccent          // highlights and titles
	ColorMuted           // hints
	ColorAlert           // errors and victory banner
)
