package common

const (
	BaseWidth  = 640
	BaseHeight = 360
	TPS        = 60
	TileSize   = 16
)
