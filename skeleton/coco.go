package skeleton

// COCOKeypoints names the 17 person keypoints of the COCO dataset.
var COCOKeypoints = []string{
	"nose",
	"left_eye",
	"right_eye",
	"left_ear",
	"right_ear",
	"left_shoulder",
	"right_shoulder",
	"left_elbow",
	"right_elbow",
	"left_wrist",
	"right_wrist",
	"left_hip",
	"right_hip",
	"left_knee",
	"right_knee",
	"left_ankle",
	"right_ankle",
}

// cocoPairs is the 19-edge person skeleton, 1-based as published with the dataset.
var cocoPairs = [][2]int{
	{16, 14}, {14, 12}, {17, 15}, {15, 13}, {12, 13}, {6, 12}, {7, 13},
	{6, 7}, {6, 8}, {7, 9}, {8, 10}, {9, 11}, {2, 3}, {1, 2}, {1, 3},
	{2, 4}, {3, 5}, {4, 6}, {5, 7},
}

// COCOSkeleton returns the 0-based COCO person skeleton edges.
func COCOSkeleton() []Edge {
	edges := make([]Edge, len(cocoPairs))
	for i, p := range cocoPairs {
		edges[i] = Edge{A: p[0] - 1, B: p[1] - 1}
	}

	return edges
}

// COCO returns the Topology of the COCO person skeleton.
func COCO() *Topology {
	t, err := New(len(COCOKeypoints), COCOSkeleton())
	if err != nil {
		panic("skeleton: invalid built-in COCO skeleton: " + err.Error())
	}

	return t
}
