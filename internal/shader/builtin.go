package shader

// Names of the shaders registered by RegisterBuiltins.
const (
	BaseMaterial  = "base_material"
	BaseWireframe = "base_wireframe"
	BasePhong     = "base_phong"
	BasePBR       = "base_pbr"
)

// RegisterBuiltins registers the built-in shaders for both dialects.
func RegisterBuiltins(lib *Library) {
	lib.Register(BaseMaterial, Variants{
		GLSL: &Source{Vertex: unlitVertexGLSL, Fragment: baseFragmentGLSL},
		WGSL: &Source{Code: baseWGSL, Uniforms: unlitUniforms, Bindings: MapBindings()},
	})
	lib.Register(BaseWireframe, Variants{
		GLSL: &Source{Vertex: unlitVertexGLSL, Fragment: wireframeFragmentGLSL},
		WGSL: &Source{Code: wireframeWGSL, Uniforms: unlitUniforms, Bindings: MapBindings()},
	})
	lib.Register(BasePhong, Variants{
		GLSL: &Source{Vertex: litVertexGLSL, Fragment: phongFragmentGLSL},
		WGSL: &Source{Code: phongWGSL, Uniforms: phongUniforms, Bindings: MapBindings(RoleDiffuse)},
	})
	lib.Register(BasePBR, Variants{
		GLSL: &Source{Vertex: litVertexGLSL, Fragment: pbrFragmentGLSL},
		WGSL: &Source{Code: pbrWGSL, Uniforms: pbrUniforms, Bindings: MapBindings(PBRRoles...)},
	})
}

// PBRRoles is the texture slot order of the PBR bind group.
var PBRRoles = []string{RoleBaseColor, RoleMetallicRoughness, RoleNormal, RoleOcclusion, RoleEmissive}

var unlitUniforms = []UniformField{
	{"modelViewMatrix", TypeMat4},
	{"projectionMatrix", TypeMat4},
	{"baseColor", TypeVec4},
}

var phongUniforms = []UniformField{
	{"modelViewMatrix", TypeMat4},
	{"projectionMatrix", TypeMat4},
	{"normalMatrix", TypeMat3},
	{"cameraPos", TypeVec3},
	{"shininess", TypeF32},
	{"baseColor", TypeVec4},
	{"specularColor", TypeVec3},
	{"lightIntensity", TypeF32},
	{"lightDir", TypeVec3},
	{"ambientColor", TypeVec3},
	{"lightColor", TypeVec3},
}

var pbrUniforms = []UniformField{
	{"modelViewMatrix", TypeMat4},
	{"projectionMatrix", TypeMat4},
	{"normalMatrix", TypeMat3},
	{"cameraPos", TypeVec3},
	{"metallic", TypeF32},
	{"baseColor", TypeVec4},
	{"roughness", TypeF32},
	{"normalScale", TypeF32},
	{"aoStrength", TypeF32},
	{"emissiveIntensity", TypeF32},
	{"emissive", TypeVec3},
	{"lightIntensity", TypeF32},
	{"lightDir", TypeVec3},
	{"ambientColor", TypeVec3},
	{"lightColor", TypeVec3},
}

const unlitVertexGLSL = `
attribute vec3 aPosition;
uniform mat4 uModelViewMatrix;
uniform mat4 uProjectionMatrix;

void main() {
    gl_Position = uProjectionMatrix * uModelViewMatrix * vec4(aPosition, 1.0);
}
`

const baseFragmentGLSL = `
precision mediump float;
uniform vec4 uBaseColor;

void main() {
    gl_FragColor = uBaseColor;
}
`

const wireframeFragmentGLSL = `
precision mediump float;
uniform vec4 uBaseColor;

void main() {
    gl_FragColor = vec4(uBaseColor.rgb, 0.5);
}
`

const litVertexGLSL = `
attribute vec3 aPosition;
#ifdef HAS_NORMAL
attribute vec3 aNormal;
#endif
#ifdef HAS_TEXCOORD
attribute vec2 aTexCoord;
#endif

uniform mat4 uModelViewMatrix;
uniform mat4 uProjectionMatrix;
uniform mat3 uNormalMatrix;

varying vec3 vNormal;
varying vec3 vViewPos;
varying vec2 vTexCoord;

void main() {
#ifdef HAS_NORMAL
    vNormal = normalize(uNormalMatrix * aNormal);
#else
    vNormal = vec3(0.0, 0.0, 1.0);
#endif
#ifdef HAS_TEXCOORD
    vTexCoord = aTexCoord;
#else
    vTexCoord = vec2(0.0);
#endif
    vec4 viewPos = uModelViewMatrix * vec4(aPosition, 1.0);
    vViewPos = viewPos.xyz;
    gl_Position = uProjectionMatrix * viewPos;
}
`

const phongFragmentGLSL = `
precision mediump float;
varying vec3 vNormal;
varying vec3 vViewPos;
varying vec2 vTexCoord;

uniform vec4 uBaseColor;
uniform vec3 uSpecularColor;
uniform float uShininess;
uniform vec3 uAmbientColor;
uniform vec3 uLightDir;
uniform vec3 uLightColor;
uniform float uLightIntensity;
#ifdef HAS_DIFFUSEMAP
uniform sampler2D uDiffuseMap;
#endif

void main() {
    vec3 albedo = uBaseColor.rgb;
#ifdef HAS_DIFFUSEMAP
    albedo *= texture2D(uDiffuseMap, vTexCoord).rgb;
#endif
    vec3 N = normalize(vNormal);
    vec3 L = normalize(-uLightDir);
    vec3 V = normalize(-vViewPos);
    vec3 H = normalize(L + V);

    float diff = max(dot(N, L), 0.0);
    float spec = pow(max(dot(N, H), 0.0), uShininess);

    vec3 color = uAmbientColor * albedo
        + (albedo * diff + uSpecularColor * spec) * uLightColor * uLightIntensity;
    gl_FragColor = vec4(color, uBaseColor.a);
}
`

const pbrFragmentGLSL = `
precision mediump float;
varying vec3 vNormal;
varying vec3 vViewPos;
varying vec2 vTexCoord;

uniform vec4 uBaseColor;
uniform float uMetallic;
uniform float uRoughness;
uniform float uNormalScale;
uniform float uAoStrength;
uniform vec3 uEmissive;
uniform vec3 uAmbientColor;
uniform vec3 uLightDir;
uniform vec3 uLightColor;
uniform float uLightIntensity;

uniform sampler2D uBaseColorMap;
uniform sampler2D uMetallicRoughnessMap;
uniform sampler2D uNormalMap;
uniform sampler2D uAoMap;
uniform sampler2D uEmissiveMap;

float distributionGGX(vec3 N, vec3 H, float roughness) {
    float a = roughness * roughness;
    float a2 = a * a;
    float NdotH = max(dot(N, H), 0.0);
    float denom = NdotH * NdotH * (a2 - 1.0) + 1.0;
    return a2 / (3.1415926 * denom * denom);
}

float geometrySchlickGGX(float NdotV, float roughness) {
    float r = roughness + 1.0;
    float k = (r * r) / 8.0;
    return NdotV / (NdotV * (1.0 - k) + k);
}

vec3 fresnelSchlick(float cosTheta, vec3 F0) {
    return F0 + (1.0 - F0) * pow(1.0 - cosTheta, 5.0);
}

void main() {
    vec3 baseColor = uBaseColor.rgb;
    vec3 sampled = texture2D(uBaseColorMap, vTexCoord).rgb;
#ifdef HAS_BASECOLORMAP
    sampled = pow(sampled, vec3(2.2));
#endif
    baseColor *= sampled;

    vec4 mr = texture2D(uMetallicRoughnessMap, vTexCoord);
    float metallic = uMetallic * mr.b;
    float roughness = max(0.01, uRoughness * mr.g);

    vec3 N = normalize(vNormal);
    if (uNormalScale > 0.0) {
        vec3 tangentNormal = texture2D(uNormalMap, vTexCoord).xyz * 2.0 - 1.0;
        N = normalize(mix(N, tangentNormal, uNormalScale));
    }

    vec3 V = normalize(-vViewPos);
    vec3 L = normalize(-uLightDir);
    vec3 H = normalize(V + L);

    float ao = mix(1.0, texture2D(uAoMap, vTexCoord).r, uAoStrength);
    vec3 emissive = uEmissive * texture2D(uEmissiveMap, vTexCoord).rgb;

    float NdotL = max(dot(N, L), 0.0);
    float NdotV = max(dot(N, V), 0.0);
    float NDF = distributionGGX(N, H, roughness);
    float G = geometrySchlickGGX(NdotV, roughness) * geometrySchlickGGX(NdotL, roughness);
    vec3 F0 = mix(vec3(0.04), baseColor, metallic);
    vec3 F = clamp(fresnelSchlick(max(dot(H, V), 0.0), F0), 0.0, 0.98);

    vec3 specular = NDF * G * F / (4.0 * NdotV * NdotL + 0.001);
    vec3 kD = (vec3(1.0) - F) * (1.0 - metallic);
    vec3 diffuse = kD * baseColor / 3.1415926;
    vec3 ambient = uAmbientColor * baseColor * ao;

    vec3 color = ambient + (diffuse + specular) * uLightColor * uLightIntensity * NdotL + emissive;
    color = color / (color + vec3(1.0));
    color = pow(color, vec3(1.0 / 2.2));
    gl_FragColor = vec4(color, uBaseColor.a);
}
`

const unlitWGSLHeader = `
struct Uniforms {
    modelViewMatrix : mat4x4<f32>,
    projectionMatrix : mat4x4<f32>,
    baseColor : vec4<f32>,
};

@group(0) @binding(0) var<uniform> uniforms : Uniforms;

struct VertexInput {
    @location(0) aPosition : vec3<f32>,
};

struct VertexOutput {
    @builtin(position) position : vec4<f32>,
};

@vertex
fn vs_main(input : VertexInput) -> VertexOutput {
    var output : VertexOutput;
    output.position = uniforms.projectionMatrix * uniforms.modelViewMatrix * vec4<f32>(input.aPosition, 1.0);
    return output;
}
`

const baseWGSL = unlitWGSLHeader + `
@fragment
fn fs_main(input : VertexOutput) -> @location(0) vec4<f32> {
    return uniforms.baseColor;
}
`

const wireframeWGSL = unlitWGSLHeader + `
@fragment
fn fs_main(input : VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(uniforms.baseColor.rgb, 0.5);
}
`

const litVertexWGSL = `
struct VertexInput {
    @location(0) aPosition : vec3<f32>,
    @define HAS_NORMAL {
    @location(1) aNormal : vec3<f32>,
    }
    @define HAS_TEXCOORD {
    @location(2) aTexCoord : vec2<f32>,
    }
};

struct VertexOutput {
    @builtin(position) position : vec4<f32>,
    @location(0) vViewPos : vec3<f32>,
    @location(1) vNormal : vec3<f32>,
    @location(2) vTexCoord : vec2<f32>,
};

@vertex
fn vs_main(input : VertexInput) -> VertexOutput {
    var output : VertexOutput;
    let viewPos = uniforms.modelViewMatrix * vec4<f32>(input.aPosition, 1.0);
    output.position = uniforms.projectionMatrix * viewPos;
    output.vViewPos = viewPos.xyz;
    output.vNormal = vec3<f32>(0.0, 0.0, 1.0);
    output.vTexCoord = vec2<f32>(0.0, 0.0);
    @define HAS_NORMAL {
    output.vNormal = normalize(uniforms.normalMatrix * input.aNormal);
    }
    @define HAS_TEXCOORD {
    output.vTexCoord = input.aTexCoord;
    }
    return output;
}
`

const phongWGSL = `
struct Uniforms {
    modelViewMatrix : mat4x4<f32>,
    projectionMatrix : mat4x4<f32>,
    normalMatrix : mat3x3<f32>,
    cameraPos : vec3<f32>,
    shininess : f32,
    baseColor : vec4<f32>,
    specularColor : vec3<f32>,
    lightIntensity : f32,
    lightDir : vec3<f32>,
    ambientColor : vec3<f32>,
    lightColor : vec3<f32>,
};

@group(0) @binding(0) var<uniform> uniforms : Uniforms;
@group(0) @binding(1) var uDiffuseMap : texture_2d<f32>;
@group(0) @binding(2) var uDiffuseSampler : sampler;
` + litVertexWGSL + `
@fragment
fn fs_main(input : VertexOutput) -> @location(0) vec4<f32> {
    var albedo = uniforms.baseColor.rgb;
    let sampled = textureSample(uDiffuseMap, uDiffuseSampler, input.vTexCoord).rgb;
    @define HAS_DIFFUSEMAP {
    albedo = albedo * sampled;
    }
    let N = normalize(input.vNormal);
    let L = normalize(-uniforms.lightDir);
    let V = normalize(-input.vViewPos);
    let H = normalize(L + V);

    let diff = max(dot(N, L), 0.0);
    let spec = pow(max(dot(N, H), 0.0), uniforms.shininess);

    let color = uniforms.ambientColor * albedo
        + (albedo * diff + uniforms.specularColor * spec) * uniforms.lightColor * uniforms.lightIntensity;
    return vec4<f32>(color, uniforms.baseColor.a);
}
`

const pbrWGSL = `
struct Uniforms {
    modelViewMatrix : mat4x4<f32>,
    projectionMatrix : mat4x4<f32>,
    normalMatrix : mat3x3<f32>,
    cameraPos : vec3<f32>,
    metallic : f32,
    baseColor : vec4<f32>,
    roughness : f32,
    normalScale : f32,
    aoStrength : f32,
    emissiveIntensity : f32,
    emissive : vec3<f32>,
    lightIntensity : f32,
    lightDir : vec3<f32>,
    ambientColor : vec3<f32>,
    lightColor : vec3<f32>,
};

@group(0) @binding(0) var<uniform> uniforms : Uniforms;
@group(0) @binding(1) var uBaseColorMap : texture_2d<f32>;
@group(0) @binding(2) var uBaseColorSampler : sampler;
@group(0) @binding(3) var uMetallicRoughnessMap : texture_2d<f32>;
@group(0) @binding(4) var uMetallicRoughnessSampler : sampler;
@group(0) @binding(5) var uNormalMap : texture_2d<f32>;
@group(0) @binding(6) var uNormalSampler : sampler;
@group(0) @binding(7) var uAoMap : texture_2d<f32>;
@group(0) @binding(8) var uAoSampler : sampler;
@group(0) @binding(9) var uEmissiveMap : texture_2d<f32>;
@group(0) @binding(10) var uEmissiveSampler : sampler;
` + litVertexWGSL + `
fn distributionGGX(N : vec3<f32>, H : vec3<f32>, roughness : f32) -> f32 {
    let a = roughness * roughness;
    let a2 = a * a;
    let NdotH = max(dot(N, H), 0.0);
    let denom = NdotH * NdotH * (a2 - 1.0) + 1.0;
    return a2 / (3.1415926 * denom * denom);
}

fn geometrySchlickGGX(NdotV : f32, roughness : f32) -> f32 {
    let r = roughness + 1.0;
    let k = (r * r) / 8.0;
    return NdotV / (NdotV * (1.0 - k) + k);
}

fn fresnelSchlick(cosTheta : f32, F0 : vec3<f32>) -> vec3<f32> {
    return F0 + (vec3<f32>(1.0) - F0) * pow(1.0 - cosTheta, 5.0);
}

@fragment
fn fs_main(input : VertexOutput) -> @location(0) vec4<f32> {
    var sampled = textureSample(uBaseColorMap, uBaseColorSampler, input.vTexCoord).rgb;
    @define HAS_BASECOLORMAP {
    sampled = pow(sampled, vec3<f32>(2.2));
    }
    let baseColor = uniforms.baseColor.rgb * sampled;

    let mr = textureSample(uMetallicRoughnessMap, uMetallicRoughnessSampler, input.vTexCoord);
    let metallic = uniforms.metallic * mr.b;
    let roughness = max(0.01, uniforms.roughness * mr.g);

    let tangentNormal = textureSample(uNormalMap, uNormalSampler, input.vTexCoord).xyz * 2.0 - vec3<f32>(1.0);
    var N = normalize(input.vNormal);
    if (uniforms.normalScale > 0.0) {
        N = normalize(mix(N, tangentNormal, uniforms.normalScale));
    }

    let V = normalize(-input.vViewPos);
    let L = normalize(-uniforms.lightDir);
    let H = normalize(V + L);

    let ao = mix(1.0, textureSample(uAoMap, uAoSampler, input.vTexCoord).r, uniforms.aoStrength);
    let emissive = uniforms.emissive * textureSample(uEmissiveMap, uEmissiveSampler, input.vTexCoord).rgb;

    let NdotL = max(dot(N, L), 0.0);
    let NdotV = max(dot(N, V), 0.0);
    let NDF = distributionGGX(N, H, roughness);
    let G = geometrySchlickGGX(NdotV, roughness) * geometrySchlickGGX(NdotL, roughness);
    let F0 = mix(vec3<f32>(0.04), baseColor, metallic);
    let F = clamp(fresnelSchlick(max(dot(H, V), 0.0), F0), vec3<f32>(0.0), vec3<f32>(0.98));

    let specular = NDF * G * F / (4.0 * NdotV * NdotL + 0.001);
    let kD = (vec3<f32>(1.0) - F) * (1.0 - metallic);
    let diffuse = kD * baseColor / 3.1415926;
    let ambient = uniforms.ambientColor * baseColor * ao;

    var color = ambient + (diffuse + specular) * uniforms.lightColor * uniforms.lightIntensity * NdotL + emissive;
    color = color / (color + vec3<f32>(1.0));
    color = pow(color, vec3<f32>(1.0 / 2.2));
    return vec4<f32>(color, uniforms.baseColor.a);
}
`
