package overpass

type Response struct {
	Generator string
	Count     int
	Nodes     map[int64]*Node
	Ways      map[int64]*Way
	Relations map[int64]*Relation
	// MissingNodes counts way node references with no matching node in the
	// response. Those references are dropped from Way.Nodes.
	MissingNodes int
}

type Meta struct {
	ID   int64
	Tags map[string]string
}

type Node struct {
	Meta
	Lon float64
	Lat float64
}

type Way struct {
	Meta
	Nodes []*Node
}

type Relation struct {
	Meta
	Members []Member
}

type Member struct {
	Type string // node, way or relation
	Ref  int64
	Role string
}
