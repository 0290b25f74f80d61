//go:build windows

package webgpu

import "fmt"

const (
	// elementwiseGroup is the workgroup size of the 1-D element-wise kernels.
	elementwiseGroup = 256
	// tile is the edge of the square matmul tile held in workgroup memory.
	tile = 16
)

// matmulShader computes result = a @ b for row-major a (M, K) and b (K, N),
// staging tile×tile blocks of both operands in workgroup memory.
var matmulShader = fmt.Sprintf(`
const TILE: u32 = %[1]du;

@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    M: u32,
    K: u32,
    N: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

var<workgroup> tileA: array<array<f32, TILE>, TILE>;
var<workgroup> tileB: array<array<f32, TILE>, TILE>;

@compute @workgroup_size(TILE, TILE)
fn main(@builtin(global_invocation_id) gid: vec3<u32>,
        @builtin(local_invocation_id) lid: vec3<u32>) {
    let row = gid.y;
    let col = gid.x;
    var sum: f32 = 0.0;

    let tiles = (params.K + TILE - 1u) / TILE;
    for (var t: u32 = 0u; t < tiles; t = t + 1u) {
        let ak = t * TILE + lid.x;
        let bk = t * TILE + lid.y;
        if (row < params.M && ak < params.K) {
            tileA[lid.y][lid.x] = a[row * params.K + ak];
        } else {
            tileA[lid.y][lid.x] = 0.0;
        }
        if (col < params.N && bk < params.K) {
            tileB[lid.y][lid.x] = b[bk * params.N + col];
        } else {
            tileB[lid.y][lid.x] = 0.0;
        }
        workgroupBarrier();

        for (var k: u32 = 0u; k < TILE; k = k + 1u) {
            sum = sum + tileA[lid.y][k] * tileB[k][lid.x];
        }
        workgroupBarrier();
    }

    if (row < params.M && col < params.N) {
        result[row * params.N + col] = sum;
    }
}
`, tile)

// binaryShader returns a kernel computing result[i] = a[i] <op> b[i].
func binaryShader(op string) string {
	return fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(%d)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let i = gid.x;
    if (i < params.size) {
        result[i] = a[i] %s b[i];
    }
}
`, elementwiseGroup, op)
}

// affineShader computes result[i] = x[i] * scale + shift.
var affineShader = fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> x: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
    scale: f32,
    shift: f32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(%d)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let i = gid.x;
    if (i < params.size) {
        result[i] = x[i] * params.scale + params.shift;
    }
}
`, elementwiseGroup)

// reluShader computes result[i] = max(0, x[i]).
var reluShader = fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> x: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(%d)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let i = gid.x;
    if (i < params.size) {
        result[i] = max(0.0, x[i]);
    }
}
`, elementwiseGroup)
