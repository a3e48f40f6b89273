package empty

type (
	Struct = struct{}
	Chan   = chan Struct
)
